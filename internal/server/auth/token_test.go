package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	testNow    = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret)
	require.NoError(t, err)
	return c
}

func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := NewCodec(nil)
	require.Error(t, err)
}

func TestNewCodec_CopiesSecret(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	c, err := NewCodec(secret)
	require.NoError(t, err)

	tok, err := c.Issue("alice", testNow, time.Hour)
	require.NoError(t, err)

	secret[0] = 'X'
	_, err = c.ParseAndVerify(tok, testNow)
	require.NoError(t, err, "mutating the caller's slice must not affect the codec")
}

func TestIssueAndParse_RoundTrip(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	tok, err := c.Issue("alice", testNow, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(tok, "."))

	claims, err := c.ParseAndVerify(tok, testNow)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, claims.IssuedAt.Equal(testNow))
	assert.True(t, claims.ExpiresAt.Equal(testNow.Add(time.Hour)))
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
}

func TestIssue_RejectsBadInput(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	_, err := c.Issue("", testNow, time.Hour)
	require.Error(t, err)

	_, err = c.Issue("alice", testNow, 0)
	require.Error(t, err)

	_, err = c.Issue("alice", testNow, -time.Second)
	require.Error(t, err)
}

func TestParseAndVerify_Expiry(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)
	ttl := time.Hour

	tok, err := c.Issue("alice", testNow, ttl)
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{name: "at issue", at: testNow},
		{name: "just before expiry", at: testNow.Add(ttl - time.Second)},
		{name: "exactly at expiry", at: testNow.Add(ttl), wantErr: common.ErrTokenExpired},
		{name: "one second after", at: testNow.Add(ttl + time.Second), wantErr: common.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ParseAndVerify(tok, tt.at)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseAndVerify_SignatureBitFlip(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	tok, err := c.Issue("alice", testNow, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	sig[0] ^= 0x01
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)

	_, err = c.ParseAndVerify(strings.Join(parts, "."), testNow)
	require.ErrorIs(t, err, common.ErrBadSignature)
}

func TestParseAndVerify_EverySignatureBitFlip(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	subjects := []string{"alice", "bob", "carol-with-a-longer-name", "d"}
	for i, subject := range subjects {
		tok, err := c.Issue(subject, testNow.Add(time.Duration(i)*time.Minute), time.Hour)
		require.NoError(t, err)

		parts := strings.Split(tok, ".")
		require.Len(t, parts, 3)
		prefix := parts[0] + "." + parts[1] + "."
		sig := []byte(parts[2])

		for pos := range sig {
			for bit := 0; bit < 8; bit++ {
				mutated := append([]byte(nil), sig...)
				mutated[pos] ^= 1 << bit

				_, err := c.ParseAndVerify(prefix+string(mutated), testNow)
				require.ErrorIs(t, err, common.ErrBadSignature,
					"subject %q, byte %d, bit %d", subject, pos, bit)
			}
		}
	}
}

func TestParseAndVerify_TamperedClaims(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	tok, err := c.Issue("alice", testNow, time.Hour)
	require.NoError(t, err)
	other, err := c.Issue("mallory", testNow, time.Hour)
	require.NoError(t, err)

	a := strings.Split(tok, ".")
	m := strings.Split(other, ".")
	forged := strings.Join([]string{a[0], m[1], a[2]}, ".")

	_, err = c.ParseAndVerify(forged, testNow)
	require.ErrorIs(t, err, common.ErrBadSignature)
}

func TestParseAndVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	other, err := NewCodec([]byte("another-secret-another-secret-000"))
	require.NoError(t, err)

	tok, err := other.Issue("alice", testNow, time.Hour)
	require.NoError(t, err)

	_, err = newTestCodec(t).ParseAndVerify(tok, testNow)
	require.ErrorIs(t, err, common.ErrBadSignature)
}

func TestParseAndVerify_Malformed(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	for _, tok := range []string{"", "garbage", "not.a.jwt", "a.b", "....", "%%%.%%%.%%%"} {
		_, err := c.ParseAndVerify(tok, testNow)
		if !errors.Is(err, common.ErrMalformedToken) {
			t.Fatalf("token %q: expected ErrMalformedToken, got %v", tok, err)
		}
	}
}

func TestParseAndVerify_AlgNoneRejected(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(testNow),
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.ParseAndVerify(tok, testNow)
	require.ErrorIs(t, err, common.ErrBadSignature)
}

func TestParseAndVerify_OtherHMACAlgRejected(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(testNow),
		ExpiresAt: jwt.NewNumericDate(testNow.Add(time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	_, err = c.ParseAndVerify(tok, testNow)
	require.ErrorIs(t, err, common.ErrBadSignature)
}

func TestParseAndVerify_MissingClaims(t *testing.T) {
	t.Parallel()
	c := newTestCodec(t)

	sign := func(claims jwt.RegisteredClaims) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)
		return tok
	}
	exp := jwt.NewNumericDate(testNow.Add(time.Hour))
	iat := jwt.NewNumericDate(testNow)

	tests := map[string]string{
		"no sub": sign(jwt.RegisteredClaims{IssuedAt: iat, ExpiresAt: exp}),
		"no iat": sign(jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}),
		"no exp": sign(jwt.RegisteredClaims{Subject: "alice", IssuedAt: iat}),
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := c.ParseAndVerify(tok, testNow)
			require.ErrorIs(t, err, common.ErrMalformedToken)
		})
	}
}
