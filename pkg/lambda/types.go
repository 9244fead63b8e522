package lambda

import (
	"context"
	"errors"
)

// Event is the raw gateway event as decoded from the invocation payload
type Event = map[string]any

// JWTPayload holds the verified claims of a bearer token
type JWTPayload map[string]any

// Handler is the gateway entry point produced by wrapping a route handler.
// It returns the formatted response mapping.
type Handler func(ctx context.Context, event any) (map[string]any, error)

// Reserved handler parameter names. A path parameter with the same name
// takes precedence over each of them.
const (
	ParamEvent      = "event"
	ParamContext    = "context"
	ParamRequest    = "request"
	ParamJWTPayload = "jwt_payload"
)

var (
	// ErrType is returned when an event or a handler result has the wrong type
	ErrType = errors.New("type error")

	// ErrMissingField is returned when a required event field is absent
	ErrMissingField = errors.New("missing event field")

	// ErrBinding is returned when a handler declares a parameter that cannot
	// be resolved. It is a programming error and never becomes a response.
	ErrBinding = errors.New("binding error")
)
