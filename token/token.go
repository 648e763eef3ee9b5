// Package token issues and verifies the bearer credentials used by the
// API. Tokens are HS256-signed and carry the user id in the "id" claim.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TTL is the lifetime of an issued credential.
const TTL = 30 * 24 * time.Hour

var (
	ErrInvalidToken = errors.New("token verification failed")
	ErrExpiredToken = errors.New("token expired")
)

type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue signs a credential for the given user id.
func (i *Issuer) Issue(userID string) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": i.now().Add(TTL).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify checks the signature and expiry and returns the embedded user
// id.
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !tok.Valid {
		return "", ErrInvalidToken
	}

	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
