// Package auth implements the stateless authentication core of the server:
// password hashing, signed access tokens, the public route policy and the
// per-request gate that decides whether a request is admitted.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// ClaimSet is the verified content of an access token.
type ClaimSet struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenVerifier validates a compact token at a given instant.
type TokenVerifier interface {
	ParseAndVerify(token string, now time.Time) (*ClaimSet, error)
}

// Codec mints and verifies HS256-signed JWTs with a single process secret.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	secret []byte
}

// NewCodec returns a Codec keyed with a private copy of secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is empty")
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{secret: key}, nil
}

// Issue signs a token for subject with iat=now and exp=now+ttl.
func (c *Codec) Issue(subject string, now time.Time, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is empty")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseAndVerify checks structure, algorithm and signature before any claim
// is trusted, then expiry. Failures map to common.ErrMalformedToken,
// common.ErrBadSignature or common.ErrTokenExpired.
//
// Timestamps have one-second resolution; a token is expired once now >= exp.
// A correctly signed token without sub or iat is malformed.
func (c *Codec) ParseAndVerify(tokenString string, now time.Time) (*ClaimSet, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) && signatureUndecodable(tokenString) {
			return nil, common.ErrBadSignature
		}
		return nil, classify(err)
	}

	if claims.IssuedAt == nil || claims.Subject == "" {
		return nil, common.ErrMalformedToken
	}

	return &ClaimSet{
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

var strictSegment = base64.RawURLEncoding.Strict()

// signatureUndecodable reports whether header and claims are well-formed
// base64url while everything after the second dot is not. A token mangled
// only in its signature part is a bad signature, not a malformed token.
func signatureUndecodable(tokenString string) bool {
	parts := strings.SplitN(tokenString, ".", 3)
	if len(parts) != 3 {
		return false
	}
	for _, seg := range parts[:2] {
		if seg == "" {
			return false
		}
		if _, err := strictSegment.DecodeString(seg); err != nil {
			return false
		}
	}
	_, err := strictSegment.DecodeString(parts[2])
	return err != nil || parts[2] == ""
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return common.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return common.ErrBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return common.ErrTokenExpired
	default:
		return common.ErrMalformedToken
	}
}
