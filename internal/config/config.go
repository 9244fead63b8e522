package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrConfig is returned when the application is configured inconsistently.
// It is always raised before any request is handled.
var ErrConfig = errors.New("configuration error")

// AuthScheme names an authentication scheme supported by the App
type AuthScheme string

const (
	AuthSchemeNone      AuthScheme = ""
	AuthSchemeJWTBearer AuthScheme = "JWT_BEARER"
)

const (
	DefaultJWTAlgorithm  = "HS256"
	DefaultTokenDuration = 24 * time.Hour
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	LogLevel    string
	App         AppConfig
}

// AppConfig is the process-wide configuration shared read-only by every route.
type AppConfig struct {
	AuthScheme           AuthScheme    `env:"AUTH_SCHEME" validate:"omitempty,oneof=JWT_BEARER"`
	JWTSecret            string        `env:"JWT_SECRET" validate:"required_if=AuthScheme JWT_BEARER"`
	JWTAlgorithm         string        `env:"JWT_ALGORITHM" validate:"omitempty,oneof=HS256 HS384 HS512"`
	TokenDuration        time.Duration `env:"JWT_EXPIRY_HOURS" validate:"gte=0"`
	AllowCORS            bool          `env:"ALLOW_CORS"`
	CORSOrigin           []string      `env:"CORS_ORIGIN" validate:"required_if=AllowCORS true,dive,required"`
	CORSAllowCredentials bool          `env:"CORS_ALLOW_CREDENTIALS"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

// BearerEnabled reports whether the bearer JWT scheme is configured
func (c AppConfig) BearerEnabled() bool {
	return c.AuthScheme == AuthSchemeJWTBearer
}

// Validate applies defaults and checks the configuration invariants.
func (c *AppConfig) Validate() error {
	if c.BearerEnabled() {
		if c.JWTAlgorithm == "" {
			c.JWTAlgorithm = DefaultJWTAlgorithm
		}
		if c.TokenDuration == 0 {
			c.TokenDuration = DefaultTokenDuration
		}
	}

	// required_if only rejects a nil slice
	if c.AllowCORS && len(c.CORSOrigin) == 0 {
		return fmt.Errorf("%w: CORS_ORIGIN cannot be empty when AllowCORS = true", ErrConfig)
	}

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return fmt.Errorf("%w: %s", ErrConfig, strings.Join(formatValidationErrors(validationErrors), "; "))
		}
		return fmt.Errorf("%w: %v", ErrConfig, err)
	}

	return nil
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_ALGORITHM", DefaultJWTAlgorithm)
	viper.SetDefault("JWT_EXPIRY_HOURS", int(DefaultTokenDuration/time.Hour))
	viper.SetDefault("ALLOW_CORS", false)
	viper.SetDefault("CORS_ALLOW_CREDENTIALS", false)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		App: AppConfig{
			AuthScheme:           AuthScheme(viper.GetString("AUTH_SCHEME")),
			JWTSecret:            viper.GetString("JWT_SECRET"),
			JWTAlgorithm:         viper.GetString("JWT_ALGORITHM"),
			TokenDuration:        time.Duration(viper.GetInt("JWT_EXPIRY_HOURS")) * time.Hour,
			AllowCORS:            viper.GetBool("ALLOW_CORS"),
			CORSOrigin:           splitList(viper.GetString("CORS_ORIGIN")),
			CORSAllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
		},
	}

	if err := config.App.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// splitList parses a comma separated list, dropping empty items
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func formatValidationErrors(validationErrors validator.ValidationErrors) []string {
	var messages []string

	for _, err := range validationErrors {
		var message string

		switch err.Tag() {
		case "required_if":
			message = fmt.Sprintf("%s cannot be empty when %s", err.Field(), strings.Replace(err.Param(), " ", " = ", 1))
		case "required":
			message = fmt.Sprintf("%s cannot contain empty values", err.Namespace())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gte":
			message = fmt.Sprintf("%s must not be negative", err.Field())
		default:
			message = fmt.Sprintf("%s is invalid", err.Field())
		}

		messages = append(messages, message)
	}

	return messages
}
