package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints signed session tokens.
type Signer interface {
	Sign(c Claims) (string, error)
}

// Verifier checks a raw token and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

type edDSAKeyPair struct {
	priv   ed25519.PrivateKey
	pub    ed25519.PublicKey
	issuer string
}

// NewEphemeralKeyPair generates a fresh Ed25519 key pair for the lifetime of
// the process. Sessions do not survive a restart, which is acceptable:
// logout is a client-side discard and login is cheap.
func NewEphemeralKeyPair(issuer string) (Signer, Verifier, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	kp := &edDSAKeyPair{priv: priv, pub: pub, issuer: issuer}
	return kp, kp, nil
}

func (k *edDSAKeyPair) Sign(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.RegisteredClaims{
		Subject:   c.Subject,
		Issuer:    k.issuer,
		IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
	})
	return token.SignedString(k.priv)
}

func (k *edDSAKeyPair) Verify(raw string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, ErrTokenInvalid
		}
		return k.pub, nil
	}, jwt.WithIssuer(k.issuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	reg, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}

	claims := Claims{
		Subject: reg.Subject,
		Issuer:  reg.Issuer,
	}
	if reg.IssuedAt != nil {
		claims.IssuedAt = reg.IssuedAt.Time
	}
	if reg.ExpiresAt != nil {
		claims.ExpiresAt = reg.ExpiresAt.Time
	}
	return claims, nil
}

// NewSessionClaims builds standard claims for a user session.
func NewSessionClaims(userID, issuer string, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		Subject:   userID,
		Issuer:    issuer,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}
