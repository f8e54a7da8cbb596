package jwtinfra

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the session token payload.
type Claims struct {
	UserID        string `json:"user_id"`
	Phone         string `json:"phone"`
	PhoneVerified bool   `json:"phone_verified"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 session tokens. Validity is entirely
// determined by signature and expiry — there is no server-side session table.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(secret string, expiry time.Duration) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	return &Provider{secret: []byte(secret), expiry: expiry}, nil
}

// Expiry returns the token validity window, used to size the cookie max-age.
func (p *Provider) Expiry() time.Duration { return p.expiry }

func (p *Provider) Sign(userID, phone string, phoneVerified bool) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:        userID,
		Phone:         phone,
		PhoneVerified: phoneVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
