package handlers

import (
	"fmt"

	"lambdarest/pkg/lambda"
)

// Routes holds one gateway entry point per sample function
type Routes struct {
	Hello     lambda.Handler
	Auth      lambda.Handler
	GetUser   lambda.Handler
	ListUsers lambda.Handler
}

// SetupRoutes declares the sample routes on app. The restricted routes need
// the app to run the JWT_BEARER scheme.
func SetupRoutes(app *lambda.App, h *Handlers) (*Routes, error) {
	routes := &Routes{}

	declarations := []struct {
		target  *lambda.Handler
		config  lambda.RouteConfig
		params  []string
		handler any
	}{
		{
			target:  &routes.Hello,
			config:  lambda.RouteConfig{Name: "hello"},
			handler: h.Hello,
		},
		{
			target:  &routes.Auth,
			config:  lambda.RouteConfig{Name: "auth", BodySchema: AuthSchema},
			params:  []string{lambda.ParamRequest},
			handler: h.Login,
		},
		{
			target:  &routes.GetUser,
			config:  lambda.RouteConfig{Name: "get-user", Restricted: true},
			params:  []string{"user_id", lambda.ParamJWTPayload},
			handler: h.GetUser,
		},
		{
			target:  &routes.ListUsers,
			config:  lambda.RouteConfig{Name: "list-users", Restricted: true, QueryParamsSchema: ListUsersQuerySchema},
			params:  []string{lambda.ParamRequest},
			handler: h.ListUsers,
		},
	}

	for _, d := range declarations {
		route, err := app.Route(d.config)
		if err != nil {
			return nil, fmt.Errorf("failed to declare route %s: %w", d.config.Name, err)
		}
		handler, err := route.Handle(d.params, d.handler)
		if err != nil {
			return nil, fmt.Errorf("failed to wrap route %s: %w", d.config.Name, err)
		}
		*d.target = handler
	}

	return routes, nil
}
