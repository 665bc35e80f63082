package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DannyJSullivan/card-inventory-api/internal/config"
)

// ErrInvalidToken is wrapped by every token validation failure.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the registered claims carried by an access token: sub, iat, exp.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTManager issues and validates HMAC-signed access tokens. The secret,
// algorithm and lifetime are fixed at construction.
type JWTManager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager builds a codec from cfg. Only HS256, HS384 and HS512 are
// accepted.
func NewJWTManager(cfg config.TokenConfig) (*JWTManager, error) {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("empty signing secret")
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("negative token lifetime %s", cfg.TTL)
	}
	return &JWTManager{
		secret: []byte(cfg.SecretKey),
		method: method,
		ttl:    cfg.TTL,
		now:    time.Now,
	}, nil
}

// TTL returns the lifetime given to new tokens.
func (m *JWTManager) TTL() time.Duration {
	return m.ttl
}

// GenerateAccessToken signs a token for subject expiring ttl from now.
// Timestamps are truncated to whole seconds.
func (m *JWTManager) GenerateAccessToken(subject string) (string, time.Time, error) {
	now := m.now().UTC()
	issuedAt := jwt.NewNumericDate(now)
	expiresAt := jwt.NewNumericDate(now.Add(m.ttl))

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  issuedAt,
			ExpiresAt: expiresAt,
		},
	}

	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt.Time, nil
}

// ValidateAccessToken verifies the signature, algorithm and expiry of
// tokenString. A token is valid only while now < exp. All failures wrap
// ErrInvalidToken.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
