// Package auth verifies the signed staff tokens issued by the front office.
// The token claims carry the actor identity that every state-machine commit
// must be attributed to.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var ErrInvalidToken = errors.New("invalid staff token")

// Actor is the staff identity extracted from a verified token.
type Actor struct {
	ID   string
	Name string
	Role string
}

type staffClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
	Role string `json:"role"`
}

// TokenService creates and verifies staff tokens
type TokenService struct {
	key []byte
}

// NewTokenService creates new TokenService instance
func NewTokenService(key []byte) *TokenService {
	return &TokenService{key: key}
}

// CreateToken issues a signed token for the actor.
func (ts *TokenService) CreateToken(actor Actor, ttl time.Duration) (string, error) {
	claims := staffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Name: actor.Name,
		Role: actor.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.key)
}

// VerifyToken validates the token signature and returns the actor.
func (ts *TokenService) VerifyToken(tokenString string) (*Actor, error) {
	claims := &staffClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return ts.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return &Actor{
		ID:   claims.Subject,
		Name: claims.Name,
		Role: claims.Role,
	}, nil
}
