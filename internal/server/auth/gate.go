package auth

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
)

// Decision is the outcome of the request gate.
//
// Reason carries the precise rejection kind (common.ErrMissingToken,
// common.ErrMalformedToken, common.ErrBadSignature, common.ErrTokenExpired)
// for logging. Clients only ever see a generic unauthorized response.
type Decision struct {
	Admitted bool
	Public   bool
	Identity string
	Reason   error
}

// Decide classifies path against policy and, for protected paths, verifies
// the bearer credential in authorization at instant now.
// It has no side effects and may be abandoned at any point.
func Decide(path, authorization string, policy *RoutePolicy, verifier TokenVerifier, now time.Time) Decision {
	if policy.IsPublic(path) {
		return Decision{Admitted: true, Public: true}
	}

	token, err := BearerToken(authorization)
	if err != nil {
		return Decision{Reason: err}
	}

	claims, err := verifier.ParseAndVerify(token, now)
	if err != nil {
		return Decision{Reason: err}
	}

	return Decision{Admitted: true, Identity: claims.Subject}
}

// BearerToken extracts the credential from an Authorization header value of
// the form "Bearer <token>". The scheme is matched case-insensitively.
func BearerToken(authorization string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(authorization), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrMissingToken
	}
	return token, nil
}
