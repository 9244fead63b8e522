package lambda

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"lambdarest/internal/config"
	"lambdarest/internal/middleware"
)

// AppConfig is the process-wide configuration of an App
type AppConfig = config.AppConfig

// ErrConfig is returned when an App, a route or a handler is declared
// inconsistently. It always happens before the first request.
var ErrConfig = config.ErrConfig

// App holds the configuration shared by all of its routes. It is immutable
// once built and safe to use from concurrent invocations.
type App struct {
	config    AppConfig
	auth      *middleware.AuthService
	cors      *middleware.CORSPolicy
	logger    *logrus.Logger
	logFields logrus.Fields
}

// Option customizes an App
type Option func(*App)

// WithLogger sets the logger used for invocation logs
func WithLogger(logger *logrus.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLogFields adds fields to every invocation log line
func WithLogFields(fields logrus.Fields) Option {
	return func(a *App) {
		for k, v := range fields {
			a.logFields[k] = v
		}
	}
}

// NewApp validates cfg and builds an App
func NewApp(cfg AppConfig, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		config:    cfg,
		logger:    logrus.StandardLogger(),
		logFields: logrus.Fields{},
	}
	for _, opt := range opts {
		opt(app)
	}

	if cfg.BearerEnabled() {
		auth, err := middleware.NewAuthService(&middleware.AuthConfig{
			JWTSecret:     cfg.JWTSecret,
			Algorithm:     cfg.JWTAlgorithm,
			TokenDuration: cfg.TokenDuration,
		}, app.logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfig, err)
		}
		app.auth = auth
	}

	app.cors = middleware.NewCORSPolicy(cfg.AllowCORS, cfg.CORSOrigin, cfg.CORSAllowCredentials)

	return app, nil
}

// MustNewApp is like NewApp but panics on error. Meant for init().
func MustNewApp(cfg AppConfig, opts ...Option) *App {
	app, err := NewApp(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return app
}

// Config returns the validated configuration
func (a *App) Config() AppConfig {
	return a.config
}

// Auth returns the bearer token service, nil unless the scheme is JWT_BEARER
func (a *App) Auth() *middleware.AuthService {
	return a.auth
}

// Logger returns the invocation logger
func (a *App) Logger() *logrus.Logger {
	return a.logger
}
