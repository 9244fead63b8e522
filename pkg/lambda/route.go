package lambda

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"lambdarest/internal/middleware"
)

// Fixed bodies of the responses produced by the route itself
const (
	UnauthorizedBody    = "Unauthorized"
	TooManyRequestsBody = "Too Many Requests"
)

// RateLimit throttles a route. Exceeding it yields a 429 response.
type RateLimit struct {
	RequestsPerSecond float64
	Burst             int
}

// RouteConfig is the contract declared for a route
type RouteConfig struct {
	// Name identifies the route in logs. Defaults to the handler func name.
	Name string

	// BodySchema and QueryParamsSchema are JSON Schema (draft-07) documents,
	// given as Go values, JSON strings or JSON bytes.
	BodySchema        any
	QueryParamsSchema any

	// Restricted routes require a valid bearer token
	Restricted bool

	RateLimit *RateLimit
}

// Route is a declared route ready to wrap handlers. Schemas are compiled
// once here and reused by every invocation.
type Route struct {
	app       *App
	config    RouteConfig
	validator *middleware.SchemaValidator
	limiter   *middleware.RateLimiter
}

// Route declares a route on the app
func (a *App) Route(rc RouteConfig) (*Route, error) {
	if rc.Restricted && a.auth == nil {
		return nil, fmt.Errorf("%w: cannot declare route as restricted, AUTH_SCHEME is not JWT_BEARER", ErrConfig)
	}

	validator, err := middleware.NewSchemaValidator(rc.BodySchema, rc.QueryParamsSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	route := &Route{
		app:       a,
		config:    rc,
		validator: validator,
	}
	if rc.RateLimit != nil {
		if rc.RateLimit.RequestsPerSecond <= 0 {
			return nil, fmt.Errorf("%w: rate limit must be positive", ErrConfig)
		}
		route.limiter = middleware.NewRateLimiter(rc.RateLimit.RequestsPerSecond, rc.RateLimit.Burst, a.logger)
	}

	return route, nil
}

// MustRoute is like Route but panics on error
func (a *App) MustRoute(rc RouteConfig) *Route {
	route, err := a.Route(rc)
	if err != nil {
		panic(err)
	}
	return route
}

// Handle wraps handler into a gateway entry point. params names the
// handler's parameters in order; each name is resolved per invocation from
// the path parameters or the reserved names event, context, request and
// jwt_payload.
func (r *Route) Handle(params []string, handler any) (Handler, error) {
	b, err := newBinder(params, handler)
	if err != nil {
		return nil, err
	}

	name := r.config.Name
	if name == "" {
		name = b.name()
	}

	return func(ctx context.Context, event any) (map[string]any, error) {
		req, err := NewRequest(event)
		if err != nil {
			return nil, err
		}

		log := r.startLog(ctx, name, req)

		response, err := r.serve(ctx, name, event, req, b)
		if err != nil {
			log.Fail(err)
			return nil, err
		}

		origin, _ := req.Header("Origin")
		formatted, err := response.FormatWith(r.app.cors.Headers(origin))
		if err != nil {
			log.Fail(err)
			return nil, err
		}

		log.Complete(response.Code)
		return formatted, nil
	}, nil
}

// MustHandle is like Handle but panics on error
func (r *Route) MustHandle(params []string, handler any) Handler {
	h, err := r.Handle(params, handler)
	if err != nil {
		panic(err)
	}
	return h
}

// Config returns the route declaration
func (r *Route) Config() RouteConfig {
	return r.config
}

func (r *Route) serve(ctx context.Context, name string, event any, req *Request, b *binder) (*Response, error) {
	if !r.limiter.Allow(name) {
		return &Response{Code: http.StatusTooManyRequests, Body: TooManyRequestsBody}, nil
	}

	var payload JWTPayload
	if r.config.Restricted {
		claims, err := r.app.auth.CheckBearer(req)
		if err != nil {
			return &Response{Code: http.StatusUnauthorized, Body: UnauthorizedBody}, nil
		}
		payload = JWTPayload(claims)
	}

	if !r.validator.Empty() {
		verr, err := r.validator.Validate(req)
		if err != nil {
			return nil, err
		}
		if verr != nil {
			return &Response{Code: http.StatusBadRequest, Body: verr.Message}, nil
		}
	}

	reserved := map[string]any{
		ParamEvent:   event,
		ParamContext: ctx,
		ParamRequest: req,
	}
	args, err := b.bind(req, reserved, r.jwtPayloadAllowed(), payload)
	if err != nil {
		return nil, err
	}

	code, body, headers, err := b.call(args)
	if err != nil {
		return nil, err
	}

	return NewResponse(code, body, headers)
}

// jwtPayloadAllowed requires both the app bearer scheme and a restricted route
func (r *Route) jwtPayloadAllowed() bool {
	return r.app.config.BearerEnabled() && r.config.Restricted
}

func (r *Route) startLog(ctx context.Context, name string, req *Request) *middleware.InvocationLog {
	requestID, _ := req.Header(middleware.RequestIDHeader)
	method, _ := req.Method()

	fields := logrus.Fields{
		middleware.RequestIDKey: middleware.RequestID(ctx, requestID),
		"route":                 name,
		"method":                method,
		"restricted":            r.config.Restricted,
	}
	for k, v := range r.app.logFields {
		fields[k] = v
	}

	return middleware.StartInvocation(r.app.logger, fields)
}
