package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// ErrUnauthorized is returned for every bearer authentication failure. The
// underlying reason is logged but never surfaced to the caller.
var ErrUnauthorized = errors.New("unauthorized")

// BearerScheme is the only accepted Authorization header scheme
const BearerScheme = "Bearer"

// HeaderSource exposes request headers to the auth adapter
type HeaderSource interface {
	Header(name string) (string, bool)
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret     string
	Algorithm     string
	TokenDuration time.Duration
}

// AuthService verifies bearer tokens for restricted routes
type AuthService struct {
	config *AuthConfig
	method jwt.SigningMethod
	parser *jwt.Parser
	logger *logrus.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(config *AuthConfig, logger *logrus.Logger) (*AuthService, error) {
	if config.JWTSecret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if config.Algorithm == "" {
		config.Algorithm = jwt.SigningMethodHS256.Alg()
	}
	if config.TokenDuration == 0 {
		config.TokenDuration = 24 * time.Hour
	}

	method, ok := jwt.GetSigningMethod(config.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing method: %s", config.Algorithm)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &AuthService{
		config: config,
		method: method,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{method.Alg()})),
		logger: logger,
	}, nil
}

// CheckBearer extracts the bearer token from the Authorization header and
// returns its verified claims.
func (a *AuthService) CheckBearer(req HeaderSource) (jwt.MapClaims, error) {
	authHeader, ok := req.Header("Authorization")
	if !ok || authHeader == "" {
		return nil, a.reject(fmt.Errorf("%w: empty Authorization header", ErrUnauthorized))
	}

	tokenParts := strings.Fields(authHeader)
	if len(tokenParts) != 2 || tokenParts[0] != BearerScheme {
		return nil, a.reject(fmt.Errorf("%w: invalid Authorization header for Bearer auth", ErrUnauthorized))
	}

	claims, err := a.ValidateToken(tokenParts[1])
	if err != nil {
		return nil, a.reject(err)
	}

	return claims, nil
}

// ValidateToken decodes and verifies a token. Signature, decode and expiry
// failures are all reported as ErrUnauthorized.
func (a *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := a.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(a.config.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthorized)
	}

	return claims, nil
}

// GenerateToken signs the given claims, adding issued-at and expiry times
// when they are not already set.
func (a *AuthService) GenerateToken(claims jwt.MapClaims) (string, error) {
	signed := jwt.MapClaims{}
	for k, v := range claims {
		signed[k] = v
	}

	now := time.Now()
	if _, ok := signed["iat"]; !ok {
		signed["iat"] = now.Unix()
	}
	if _, ok := signed["exp"]; !ok {
		signed["exp"] = now.Add(a.config.TokenDuration).Unix()
	}

	token := jwt.NewWithClaims(a.method, signed)
	tokenString, err := token.SignedString([]byte(a.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (a *AuthService) reject(err error) error {
	a.logger.WithFields(logrus.Fields{
		"error": err.Error(),
	}).Warn("Bearer authentication failed")
	return err
}
