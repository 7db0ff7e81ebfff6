// Package jwtx wraps golang-jwt with the minimal signing surface the
// provisioning service needs: stateless EdDSA session tokens. Tokens carry
// identity only; role and business are always re-read from the store on
// privileged calls, so no authorization data lives in the payload.
package jwtx

import (
	"errors"
	"time"
)

var (
	ErrTokenExpired = errors.New("jwtx: token expired")
	ErrTokenInvalid = errors.New("jwtx: token invalid")
)

// Claims is the verified content of a session token.
type Claims struct {
	Subject   string // user ID
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// ValidateExpiry reports ErrTokenExpired when the token is past its expiry.
func (c Claims) ValidateExpiry() error {
	if c.ExpiresAt.IsZero() || time.Now().After(c.ExpiresAt) {
		return ErrTokenExpired
	}
	return nil
}
