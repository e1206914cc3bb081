package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := NewJWTManager("super-secret", time.Hour)

	tok, err := m.Issue("user-123", "a@x.com")
	require.NoError(t, err)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := m.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_ExpiryBoundary(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	m := NewJWTManager("secret", time.Minute)
	m.now = func() time.Time { return issued }
	tok, err := m.Issue("u1", "u1@x.com")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(59 * time.Second) }
	_, err = m.Verify(tok)
	assert.NoError(t, err)

	m.now = func() time.Time { return issued.Add(time.Minute) }
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	tok, err := NewJWTManager("right-secret", time.Hour).Issue("u2", "u2@x.com")
	require.NoError(t, err)

	_, err = NewJWTManager("wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_Malformed(t *testing.T) {
	m := NewJWTManager("k", time.Hour)
	for _, tok := range []string{"", "not.a.jwt", "randomstring123", strings.Repeat("a", 300)} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}

func TestJWTManager_RejectsMissingExpiry(t *testing.T) {
	secret := "k"
	claims := &Claims{Email: "a@x.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "u"}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = NewJWTManager(secret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTManager_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "u",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("k", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
