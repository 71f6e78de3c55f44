package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func newHS256Validator(t *testing.T, issuer string) *JWTValidator {
	t.Helper()
	v, err := NewJWTValidator(JWTConfig{
		SigningMethod: "HS256",
		SecretKey:     testSecret,
		Issuer:        issuer,
	})
	require.NoError(t, err)
	return v
}

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestJWTValidator_ValidToken(t *testing.T) {
	v := newHS256Validator(t, "exercisely")

	signed := signToken(t, Claims{
		UserID: "user1",
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "exercisely",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := v.ValidateToken("Bearer " + signed)

	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestJWTValidator_ExpiredToken(t *testing.T) {
	v := newHS256Validator(t, "")

	signed := signToken(t, Claims{
		UserID: "user1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	_, err := v.ValidateToken(signed)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTValidator_WrongIssuer(t *testing.T) {
	v := newHS256Validator(t, "exercisely")

	signed := signToken(t, Claims{
		UserID: "user1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := v.ValidateToken(signed)

	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestJWTValidator_MissingSubject(t *testing.T) {
	v := newHS256Validator(t, "")

	signed := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := v.ValidateToken(signed)

	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestJWTValidator_EmptyToken(t *testing.T) {
	v := newHS256Validator(t, "")

	_, err := v.ValidateToken("Bearer   ")

	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestJWTValidator_WrongSignature(t *testing.T) {
	v := newHS256Validator(t, "")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("a different secret"))
	require.NoError(t, err)

	_, err = v.ValidateToken(signed)

	assert.Error(t, err)
}

func TestNewJWTValidator_RejectsBadConfig(t *testing.T) {
	_, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256"})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{SigningMethod: "RS256"})
	assert.Error(t, err)

	_, err = NewJWTValidator(JWTConfig{SigningMethod: "none"})
	assert.Error(t, err)
}
