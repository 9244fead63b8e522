package lambda

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFromProxyRequest(t *testing.T) {
	event := EventFromProxyRequest(events.APIGatewayProxyRequest{
		Resource:       "/users/{user_id}",
		Path:           "/users/42",
		HTTPMethod:     "GET",
		PathParameters: map[string]string{"user_id": "42"},
	})

	req, err := NewRequest(event)
	require.NoError(t, err)

	method, err := req.Method()
	require.NoError(t, err)
	assert.Equal(t, "GET", method)

	headers, err := req.Headers()
	require.NoError(t, err)
	assert.Empty(t, headers)

	assert.Nil(t, req.Body())
	assert.Equal(t, map[string]any{"user_id": "42"}, req.PathParams())
	assert.Empty(t, req.QueryParams())
}

func TestEventFromProxyRequestBase64Body(t *testing.T) {
	event := EventFromProxyRequest(events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"name":"x"}`)),
		IsBase64Encoded: true,
	})
	assert.Equal(t, `{"name":"x"}`, event["body"])
}

func TestInvoke(t *testing.T) {
	app := newTestApp(t, AppConfig{})
	h := app.MustRoute(RouteConfig{}).MustHandle([]string{"user_id"}, func(userID string) (int, any, map[string]string) {
		return 200, map[string]any{"userId": userID}, map[string]string{"Content-Type": "application/json"}
	})

	resp, err := Invoke(context.Background(), h, events.APIGatewayProxyRequest{
		HTTPMethod:     "GET",
		PathParameters: map[string]string{"user_id": "42"},
	})
	require.NoError(t, err)
	assert.Equal(t, events.APIGatewayProxyResponse{
		StatusCode: 200,
		Body:       `{"userId": "42"}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}, resp)
}

func TestInvokePropagatesBindingErrors(t *testing.T) {
	app := newTestApp(t, AppConfig{})
	h := app.MustRoute(RouteConfig{}).MustHandle([]string{"missing"}, func(v any) int { return 200 })

	_, err := Invoke(context.Background(), h, events.APIGatewayProxyRequest{HTTPMethod: "GET"})
	assert.ErrorIs(t, err, ErrBinding)
}

func TestProxyResponse(t *testing.T) {
	resp, err := ProxyResponse(map[string]any{"statusCode": 204})
	require.NoError(t, err)
	assert.Equal(t, events.APIGatewayProxyResponse{StatusCode: 204}, resp)

	_, err = ProxyResponse(map[string]any{"statusCode": "204"})
	assert.ErrorIs(t, err, ErrType)

	_, err = ProxyResponse(map[string]any{"statusCode": 200, "body": 1})
	assert.ErrorIs(t, err, ErrType)
}

func TestContextCarriesLambdaContext(t *testing.T) {
	app := newTestApp(t, AppConfig{})
	h := app.MustRoute(RouteConfig{}).MustHandle([]string{"context"}, func(ctx context.Context) (int, any) {
		lc, ok := lambdacontext.FromContext(ctx)
		if !ok {
			return 500, nil
		}
		return 200, lc.AwsRequestID
	})

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "req-1"})
	resp, err := h(ctx, Event{})
	require.NoError(t, err)
	assert.Equal(t, `"req-1"`, resp["body"])
}
