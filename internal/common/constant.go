// Package common contains shared constants and sentinel errors used across
// stockkeeper components.
package common

// AuthorizationHeaderName is the HTTP header (and gRPC metadata key) that
// carries the bearer token on protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the authorization scheme expected in AuthorizationHeaderName.
const BearerScheme = "Bearer"
