package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Token verification failures. Every failure mode maps to the same
// unauthenticated outcome at the transport boundary; the distinct values
// exist for logging.
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrMissingSubject = errors.New("token has no subject claim")
)

// Claims is the JWT payload for issued bearer tokens.
// Subject carries the user identity, ID (jti) keys the revocation denylist.
type Claims struct {
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256-signed bearer tokens.
// Verification is a pure function of the token and the shared secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

// NewTokens creates a token issuer/verifier with the given secret and lifetime.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a new bearer token for the given user identity.
func (t *Tokens) Issue(userID string) (string, *Claims, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        ulid.Make().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(t.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// Verify validates signature and expiry and returns the claims.
// A token without a subject claim is invalid, not anonymous.
func (t *Tokens) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(tok *jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}
