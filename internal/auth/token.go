// Package auth signs and verifies the session credential carried by the
// auth_token cookie. The credential is a stateless HS256 JWT: identity claims
// plus a 7-day expiry, nothing stored server-side.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidity is how long an issued credential stays valid.
const TokenValidity = 7 * 24 * time.Hour

// Claims are the identity attributes embedded in the credential. The user's
// stable provider id travels as the registered "sub" claim.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the provider-issued subject id.
func (c *Claims) UserID() string { return c.Subject }

// IssueToken signs a credential for the given identity, expiring
// TokenValidity from now.
func IssueToken(userID, email, name, picture, secret string) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:   email,
		Name:    name,
		Picture: picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyToken returns the claims carried by token, or nil if the signature
// does not verify, the token is expired, or the input is malformed. It never
// reports why: a bad credential is simply an anonymous caller.
func VerifyToken(token, secret string) *Claims {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil
	}
	return claims
}
