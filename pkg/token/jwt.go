// Package token issues access tokens and confirmation codes.
package token

import (
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTTL = 24 * time.Hour

// Claims is the payload of an access token. The subject is the user id.
type Claims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"superuser"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token for u, valid from now for the issuer's TTL.
func (i *Issuer) Issue(u *entity.User, now time.Time) (string, error) {
	claims := Claims{
		Username:  u.Username,
		Role:      string(u.Role),
		Superuser: u.IsSuperuser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token for %s: %w", u.Username, err)
	}
	return signed, nil
}

// Parse verifies the signature, algorithm and expiry of raw.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, errs.ErrInvalidToken
	}
	return claims, nil
}
