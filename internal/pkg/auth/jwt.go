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
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// StateConfig defines how SSO state parameters are signed
type StateConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

// StateService signs and verifies the OIDC state parameter so the
// callback can be checked without server-side storage
type StateService struct {
	config StateConfig
}

// NewStateService creates a new state service
func NewStateService(config StateConfig) *StateService {
	if config.TTL <= 0 {
		config.TTL = 10 * time.Minute
	}
	return &StateService{config: config}
}

// StateClaims is the content of a signed state
type StateClaims struct {
	Nonce string `json:"nonce"`
	Next  string `json:"next,omitempty"`
	jwt.RegisteredClaims
}

// Issue returns a signed state carrying a fresh nonce and the post-login path
func (s *StateService) Issue(next string) (state, nonce string, err error) {
	now := time.Now()
	nonce = uuid.New().String()

	claims := &StateClaims{
		Nonce: nonce,
		Next:  next,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	state, err = token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign state: %w", err)
	}
	return state, nonce, nil
}

// Verify validates a state returned by the provider
func (s *StateService) Verify(state string) (*StateClaims, error) {
	if state == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(state, &StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid || claims.Nonce == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractToken extracts the API key from an Authorization header.
// "Token <key>" and "Bearer <key>" are accepted.
func ExtractToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	scheme, key, found := strings.Cut(authHeader, " ")
	if !found {
		return "", ErrInvalidFormat
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", ErrInvalidFormat
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidFormat
	}
	return key, nil
}

// NewTokenKey returns a fresh 32 character hex API key
func NewTokenKey() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
