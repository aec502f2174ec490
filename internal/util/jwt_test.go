package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJWT(t *testing.T) {
	tok, err := IssueJWT("discord-1", "secret", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	claims, err := ValidateJWT(tok, "secret")
	require.NoError(t, err)
	assert.Equal(t, "discord-1", claims.Subject)

	_, err = ValidateJWT(tok, "wrong")
	assert.Error(t, err)
}

func TestValidateJWTExpired(t *testing.T) {
	tok, err := IssueJWT("discord-1", "secret", jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	require.NoError(t, err)
	_, err = ValidateJWT(tok, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateJWTWithoutSubject(t *testing.T) {
	tok, err := IssueJWT("", "secret", jwt.RegisteredClaims{})
	require.NoError(t, err)
	_, err = ValidateJWT(tok, "secret")
	assert.Error(t, err)
}

func TestEmptySecretIsRefused(t *testing.T) {
	_, err := IssueJWT("discord-1", "", jwt.RegisteredClaims{})
	assert.ErrorIs(t, err, ErrEmptySecret)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "victim"}).SignedString([]byte(""))
	require.NoError(t, err)
	_, err = ValidateJWT(forged, "")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
