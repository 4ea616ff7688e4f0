// Package token mints and checks the stateless bearer tokens used on every
// authenticated request. Validity is entirely a function of the HMAC
// signature and the expiry inside the token; there is no server-side
// session or revocation store.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failures. Callers surface all of them as the same
// 401-class outcome; the distinct kinds exist for logging.
var (
	// ErrInvalidToken is returned when the signature or shape of a token
	// does not check out.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when the signature is fine but the
	// token is past its expiry.
	ErrTokenExpired = errors.New("token has expired")
)

// Claims is the subject identity carried inside a token.
type Claims struct {
	UserID uint
	Email  string
}

// Service signs and verifies tokens with a server-held symmetric secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a token service. ttl is how long issued tokens stay
// valid; the default for this system is 30 minutes.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// TTL reports the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Generate creates a signed HS256 token carrying the user's id and email.
func (s *Service) Generate(userID uint, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature then expiry and returns the embedded claims.
// It does not resolve the subject to a user; that is the caller's step.
func (s *Service) Verify(tokenStr string) (*Claims, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is acceptable; reject alg-substitution tokens.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64) // JWT numbers decode as float64
	if !ok {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &Claims{UserID: uint(sub), Email: email}, nil
}
