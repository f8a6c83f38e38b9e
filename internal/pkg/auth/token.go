package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidFormat = errors.New("invalid token format")
)

// TokenConfig defines session token settings.
type TokenConfig struct {
	SecretKey string
	Issuer    string
}

// TokenService signs and parses session tokens. A signed token proves nothing
// on its own: callers must still resolve it against the token store, so that
// revoked tokens stop working immediately. Tokens carry no expiry; they live
// until revoked.
type TokenService struct {
	config TokenConfig
}

// NewTokenService creates a new TokenService
func NewTokenService(config TokenConfig) *TokenService {
	return &TokenService{config: config}
}

// SessionClaims defines session token content
type SessionClaims struct {
	PrincipalID int64  `json:"principalId"`
	Kind        string `json:"kind"`
	jwt.RegisteredClaims
}

// Generate creates a signed session token for the given principal.
func (s *TokenService) Generate(principalID int64, kind string) (string, error) {
	claims := &SessionClaims{
		PrincipalID: principalID,
		Kind:        kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
			Issuer:   s.config.Issuer,
			Subject:  fmt.Sprintf("%d", principalID),
			ID:       uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse validates the signature of a session token and returns its claims.
func (s *TokenService) Parse(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.PrincipalID <= 0 || claims.Kind == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractBearerToken extracts the token from an Authorization header value.
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer "), nil
	}
	return authHeader, nil
}
