package util

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySecret is returned when a token would be signed or checked with an empty key.
var ErrEmptySecret = errors.New("jwt secret is empty")

// ValidateJWT parses an HS256 token signed with secret and returns its claims.
func ValidateJWT(tokenString, secret string) (*jwt.RegisteredClaims, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}
	return claims, nil
}

// IssueJWT signs an HS256 token for subject. Used by the operator CLI and tests.
func IssueJWT(subject, secret string, claims jwt.RegisteredClaims) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	claims.Subject = subject
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
