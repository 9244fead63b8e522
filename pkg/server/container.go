package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"lambdarest/internal/config"
	"lambdarest/internal/handlers"
	"lambdarest/pkg/lambda"
)

// Container holds all application dependencies
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	App      *lambda.App
	Handlers *handlers.Handlers
	Routes   *handlers.Routes
}

// NewContainer wires the app, the sample handlers and their routes from cfg
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil configuration", config.ErrConfig)
	}

	logger := config.NewLogger(cfg)

	fields := config.GetServerlessConfig().LoggerFields()
	if cfg.Environment != "" {
		fields["environment"] = cfg.Environment
	}

	app, err := lambda.NewApp(cfg.App, lambda.WithLogger(logger), lambda.WithLogFields(fields))
	if err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}

	h := handlers.NewHandlers(app.Auth(), logger)

	routes, err := handlers.SetupRoutes(app, h)
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"auth_scheme": cfg.App.AuthScheme,
		"cors":        cfg.App.AllowCORS,
	}).Debug("Container initialized")

	return &Container{
		Config:   cfg,
		Logger:   logger,
		App:      app,
		Handlers: h,
		Routes:   routes,
	}, nil
}

// NewContainerFromEnv loads the configuration from the environment and
// builds the container
func NewContainerFromEnv() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewContainer(cfg)
}
