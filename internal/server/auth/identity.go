package auth

import "context"

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the authenticated username.
func WithIdentity(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, identityKey{}, username)
}

// IdentityFromContext returns the username stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(identityKey{}).(string)
	return username, ok && username != ""
}
