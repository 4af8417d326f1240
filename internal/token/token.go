package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"campus-connect-api/internal/model"
)

// Claims carries the identity and role encoded in a credential token.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HS256 tokens with a process-wide secret.
// Verification depends only on the token, the secret and the clock; no state
// is consulted, so rotating the secret invalidates every outstanding token.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue creates a signed token bound to the user id and role, expiring
// ttl after issuance.
func (i *Issuer) Issue(userID string, role model.Role) (string, error) {
	now := i.now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify validates signature and expiry and returns the claims. A token
// presented at exactly its expiry instant is already expired: exp must be
// strictly in the future.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, model.ErrTokenInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, model.ErrTokenExpired
		}
		return nil, model.ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, model.ErrTokenInvalid
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return nil, model.ErrTokenInvalid
	}

	return claims, nil
}
