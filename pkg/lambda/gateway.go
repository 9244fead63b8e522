package lambda

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
)

// Start runs h as the function handler of the Lambda runtime. The raw
// invocation payload is passed to h as the event.
func Start(h Handler) {
	awslambda.Start(func(ctx context.Context, event map[string]any) (map[string]any, error) {
		return h(ctx, event)
	})
}

// Invoke runs h on a typed API Gateway proxy request
func Invoke(ctx context.Context, h Handler, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	formatted, err := h(ctx, EventFromProxyRequest(req))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return ProxyResponse(formatted)
}

// EventFromProxyRequest converts a typed API Gateway proxy request into the
// event mapping consumed by Request. An empty body becomes nil.
func EventFromProxyRequest(req events.APIGatewayProxyRequest) Event {
	headers := req.Headers
	if headers == nil {
		headers = map[string]string{}
	}

	event := Event{
		"resource":   req.Resource,
		"path":       req.Path,
		"httpMethod": req.HTTPMethod,
		"headers":    headers,
	}

	if req.Body != "" {
		body := req.Body
		if req.IsBase64Encoded {
			if decoded, err := base64.StdEncoding.DecodeString(req.Body); err == nil {
				body = string(decoded)
			}
		}
		event["body"] = body
	} else {
		event["body"] = nil
	}

	if req.QueryStringParameters != nil {
		event["queryStringParameters"] = req.QueryStringParameters
	} else {
		event["queryStringParameters"] = nil
	}

	if req.PathParameters != nil {
		event["pathParameters"] = req.PathParameters
	} else {
		event["pathParameters"] = nil
	}

	if req.StageVariables != nil {
		event["stageVariables"] = req.StageVariables
	}

	return event
}

// ProxyResponse converts a formatted response mapping into a typed API
// Gateway proxy response
func ProxyResponse(formatted map[string]any) (events.APIGatewayProxyResponse, error) {
	var resp events.APIGatewayProxyResponse

	code, err := statusCodeOf(formatted["statusCode"])
	if err != nil {
		return resp, err
	}
	resp.StatusCode = code

	if body, ok := formatted["body"]; ok {
		s, ok := body.(string)
		if !ok {
			return resp, fmt.Errorf("%w: invalid formatted body, %T is not a string", ErrType, body)
		}
		resp.Body = s
	}

	if headers, ok := formatted["headers"]; ok {
		h, err := headersOf(headers)
		if err != nil {
			return resp, err
		}
		resp.Headers = h
	}

	return resp, nil
}
