package lambda

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Response is a handler result waiting to be formatted for the gateway
type Response struct {
	Code    int
	Body    any
	Headers map[string]string
}

// NewResponse validates and builds a Response. code must be an integer and
// headers either nil or a string-valued mapping.
func NewResponse(code any, body any, headers any) (*Response, error) {
	statusCode, err := statusCodeOf(code)
	if err != nil {
		return nil, err
	}

	h, err := headersOf(headers)
	if err != nil {
		return nil, err
	}

	return &Response{Code: statusCode, Body: body, Headers: h}, nil
}

// Format renders the gateway response mapping. The body key is present only
// for a non-nil body, the headers key only when headers were supplied.
func (r *Response) Format() (map[string]any, error) {
	return r.FormatWith(nil)
}

// FormatWith renders the response merged over default headers. Explicit
// headers win on key collision.
func (r *Response) FormatWith(defaults map[string]string) (map[string]any, error) {
	response := map[string]any{"statusCode": r.Code}

	if r.Body != nil {
		body, err := encodeBody(r.Body)
		if err != nil {
			return nil, err
		}
		response["body"] = body
	}

	if len(defaults) > 0 || r.Headers != nil {
		headers := make(map[string]string, len(defaults)+len(r.Headers))
		for k, v := range defaults {
			headers[k] = v
		}
		for k, v := range r.Headers {
			headers[k] = v
		}
		response["headers"] = headers
	}

	return response, nil
}

func encodeBody(body any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return "", fmt.Errorf("failed to encode response body: %w", err)
	}
	return string(spaceSeparators(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))), nil
}

// spaceSeparators rewrites compact JSON to use ", " and ": " between tokens.
// Bytes inside string literals are copied unchanged.
func spaceSeparators(compact []byte) []byte {
	out := make([]byte, 0, len(compact)+len(compact)/4)
	inString, escaped := false, false

	for _, c := range compact {
		out = append(out, c)
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ',' || c == ':'):
			out = append(out, ' ')
		}
	}

	return out
}

func statusCodeOf(code any) (int, error) {
	v := reflect.ValueOf(code)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(v.Uint()), nil
	default:
		return 0, fmt.Errorf("%w: invalid status code, %T is not int", ErrType, code)
	}
}

func headersOf(headers any) (map[string]string, error) {
	switch h := headers.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return h, nil
	case map[string]any:
		if h == nil {
			return nil, nil
		}
		out := make(map[string]string, len(h))
		for k, v := range h {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: invalid header %q, %T is not a string", ErrType, k, v)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: invalid headers, %T is not a mapping", ErrType, headers)
	}
}
