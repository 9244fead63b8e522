package lambda

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Request is a read-only view over a gateway event. Every accessor derives
// its value from the event on each call.
type Request struct {
	event Event
}

// NewRequest wraps event, which must be a mapping
func NewRequest(event any) (*Request, error) {
	e, ok := event.(map[string]any)
	if !ok || e == nil {
		return nil, fmt.Errorf("%w: invalid event, %T is not a mapping", ErrType, event)
	}
	return &Request{event: e}, nil
}

// Event returns the underlying gateway event
func (r *Request) Event() Event {
	return r.event
}

// Body returns the raw body field, nil when absent
func (r *Request) Body() any {
	return r.event["body"]
}

// JSON decodes the body. A nil body decodes to nil without parsing.
func (r *Request) JSON() (any, error) {
	var raw []byte
	switch body := r.Body().(type) {
	case nil:
		return nil, nil
	case string:
		raw = []byte(body)
	case []byte:
		raw = body
	default:
		return nil, fmt.Errorf("%w: invalid body, %T is not a string", ErrType, body)
	}

	var document any
	if err := json.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return document, nil
}

// PathParams returns the pathParameters field, never nil
func (r *Request) PathParams() map[string]any {
	return mapField(r.event["pathParameters"])
}

// QueryParams returns the queryStringParameters field, never nil
func (r *Request) QueryParams() map[string]any {
	return mapField(r.event["queryStringParameters"])
}

// Method returns the httpMethod field
func (r *Request) Method() (string, error) {
	value, ok := r.event["httpMethod"]
	if !ok || value == nil {
		return "", fmt.Errorf("%w: httpMethod", ErrMissingField)
	}
	method, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: invalid httpMethod, %T is not a string", ErrType, value)
	}
	return method, nil
}

// Headers returns the headers field
func (r *Request) Headers() (map[string]string, error) {
	value, ok := r.event["headers"]
	if !ok || value == nil {
		return nil, fmt.Errorf("%w: headers", ErrMissingField)
	}

	switch h := value.(type) {
	case map[string]string:
		return h, nil
	case map[string]any:
		headers := make(map[string]string, len(h))
		for k, v := range h {
			if s, ok := v.(string); ok {
				headers[k] = s
			} else if v != nil {
				headers[k] = fmt.Sprint(v)
			}
		}
		return headers, nil
	default:
		return nil, fmt.Errorf("%w: invalid headers, %T is not a mapping", ErrType, value)
	}
}

// Header looks a header up by name, ignoring case. Gateways may deliver
// header names lower-cased.
func (r *Request) Header(name string) (string, bool) {
	headers, err := r.Headers()
	if err != nil {
		return "", false
	}
	if value, ok := headers[name]; ok {
		return value, true
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return "", false
}

func mapField(value any) map[string]any {
	switch m := value.(type) {
	case map[string]any:
		if m != nil {
			return m
		}
	case map[string]string:
		params := make(map[string]any, len(m))
		for k, v := range m {
			params[k] = v
		}
		return params
	}
	return map[string]any{}
}
