package utils

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims are the claims the engine cares about in the access token
// the rendering layer forwards on sign-in. The token is minted and verified
// by the auth provider; the engine only needs the identifiers, so the
// signature is not re-checked here (the caller is the loopback UI).
type IdentityClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ParseIdentityToken extracts the identity claims from an access token.
func ParseIdentityToken(tokenString string) (*IdentityClaims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := &IdentityClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("access token has no subject")
	}

	return claims, nil
}
