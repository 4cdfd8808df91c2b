// Package utils provides helpers for token creation and password
// hashing shared by the auth handler and middleware.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type claim values.  Refresh tokens are ordinary signed JWTs
// distinguished by the "typ" claim; no server-side token state is
// kept, so refreshing only requires the signing secret.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned when a token fails signature or claim
// validation, including presenting an access token where a refresh
// token is expected.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the decoded identity carried by a token.
type Claims struct {
	UserID uint64
	Role   string
	Type   string
}

// NewAccessToken signs an HS256 JWT identifying the user for ttlMin
// minutes.  Standard claims: sub (user ID), role, typ, exp, iat.
func NewAccessToken(secret string, userID uint64, role string, ttlMin int) (string, error) {
	return newToken(secret, userID, role, TokenTypeAccess, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken signs an HS256 JWT usable only to mint new access
// tokens, valid for ttlDays days.
func NewRefreshToken(secret string, userID uint64, role string, ttlDays int) (string, error) {
	return newToken(secret, userID, role, TokenTypeRefresh, time.Duration(ttlDays)*24*time.Hour)
}

func newToken(secret string, userID uint64, role, typ string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"typ":  typ,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseToken validates the signature and expiry of a token and
// returns its claims.  wantType restricts which kind of token is
// acceptable ("" accepts either).
func ParseToken(secret, raw, wantType string) (*Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	c := &Claims{}
	if sub, ok := mc["sub"].(float64); ok {
		c.UserID = uint64(sub)
	}
	if c.UserID == 0 {
		return nil, ErrInvalidToken
	}
	if role, ok := mc["role"].(string); ok {
		c.Role = role
	}
	if typ, ok := mc["typ"].(string); ok {
		c.Type = typ
	}
	if wantType != "" && c.Type != wantType {
		return nil, ErrInvalidToken
	}
	return c, nil
}
