package middleware

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// RequestData is the part of a request the schema validator inspects
type RequestData interface {
	JSON() (any, error)
	QueryParams() map[string]any
}

// ValidationError carries the first line of the underlying validator message.
// Its Error() text is what clients receive in the 400 response body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SchemaValidator validates request bodies and query string parameters
// against schemas compiled once at route declaration.
type SchemaValidator struct {
	body  *gojsonschema.Schema
	query *gojsonschema.Schema
}

// NewSchemaValidator compiles the given schemas with draft-07 semantics.
// Either schema may be nil. A malformed schema is returned as an error.
func NewSchemaValidator(bodySchema, queryParamsSchema any) (*SchemaValidator, error) {
	body, err := compileSchema(bodySchema)
	if err != nil {
		return nil, fmt.Errorf("invalid body schema: %w", err)
	}

	query, err := compileSchema(queryParamsSchema)
	if err != nil {
		return nil, fmt.Errorf("invalid query params schema: %w", err)
	}

	return &SchemaValidator{body: body, query: query}, nil
}

// Empty reports whether no schema is configured
func (v *SchemaValidator) Empty() bool {
	return v.body == nil && v.query == nil
}

// Validate checks the body first and the query params second, stopping at
// the first failure. It returns a nil ValidationError when both checks pass.
// A body that cannot be decoded is not a schema violation: the decode error
// is returned as is.
func (v *SchemaValidator) Validate(req RequestData) (*ValidationError, error) {
	if v.body != nil {
		document, err := req.JSON()
		if err != nil {
			return nil, err
		}
		if verr := check(v.body, document); verr != nil {
			return verr, nil
		}
	}

	if v.query != nil {
		if verr := check(v.query, req.QueryParams()); verr != nil {
			return verr, nil
		}
	}

	return nil, nil
}

func compileSchema(schema any) (*gojsonschema.Schema, error) {
	if schema == nil {
		return nil, nil
	}

	loader := gojsonschema.NewSchemaLoader()
	loader.Draft = gojsonschema.Draft7
	loader.AutoDetect = false

	var source gojsonschema.JSONLoader
	switch s := schema.(type) {
	case string:
		source = gojsonschema.NewStringLoader(s)
	case []byte:
		source = gojsonschema.NewBytesLoader(s)
	default:
		source = gojsonschema.NewGoLoader(s)
	}

	return loader.Compile(source)
}

func check(schema *gojsonschema.Schema, document any) *ValidationError {
	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return newValidationError(err.Error())
	}
	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	if len(errs) == 0 {
		return newValidationError("request does not match schema")
	}
	return newValidationError(describe(errs[0]))
}

// describe renders a schema violation the way clients see it: the offending
// property path followed by the description.
func describe(resultErr gojsonschema.ResultError) string {
	field := resultErr.Field()
	if field == gojsonschema.STRING_CONTEXT_ROOT || field == "" {
		return resultErr.Description()
	}
	return field + ": " + resultErr.Description()
}

func newValidationError(message string) *ValidationError {
	firstLine, _, _ := strings.Cut(message, "\n")
	return &ValidationError{Message: firstLine}
}
