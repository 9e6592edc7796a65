package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/netts-ev/netts-backend/internal/apperr"
)

// Token lifetimes for the different issuance paths.
const (
	SessionTokenTTL    = time.Hour
	PhoneOAuthTokenTTL = 30 * 24 * time.Hour
)

// Issuer signs and verifies time-bounded identity tokens. The signing
// key is process-wide configuration fixed at construction.
type Issuer struct {
	secret []byte
}

// NewIssuer builds a token issuer. An empty secret is a configuration
// error; callers must treat it as fatal before serving requests.
func NewIssuer(secret string) (*Issuer, error) {
	if secret == "" {
		return nil, apperr.Config("jwt signing secret is not set")
	}
	return &Issuer{secret: []byte(secret)}, nil
}

// Issue produces a signed HS256 token carrying the given claims plus
// iat/exp bounds.
func (i *Issuer) Issue(claims map[string]any, ttl time.Duration) (string, error) {
	now := time.Now()
	mapped := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	for k, v := range claims {
		mapped[k] = v
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapped)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses the token, enforces the HMAC signing method and expiry,
// and returns the claims.
func (i *Issuer) Verify(tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.Auth("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Auth("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Auth("invalid or expired token")
	}
	return claims, nil
}

// StringClaim reads a string claim, tolerating its absence.
func StringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
