package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lambdarest/internal/config"
	"lambdarest/pkg/lambda"
)

func setupTestRoutes(t *testing.T) (*lambda.App, *Routes) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app, err := lambda.NewApp(lambda.AppConfig{
		AuthScheme: config.AuthSchemeJWTBearer,
		JWTSecret:  "secret",
	}, lambda.WithLogger(logger))
	require.NoError(t, err)

	routes, err := SetupRoutes(app, NewHandlers(app.Auth(), logger))
	require.NoError(t, err)
	return app, routes
}

func login(t *testing.T, routes *Routes) string {
	t.Helper()

	resp, err := routes.Auth(context.Background(), lambda.Event{
		"body": `{"username":"john","password":"password"}`,
	})
	require.NoError(t, err)
	require.Equal(t, 200, resp["statusCode"])

	var body LoginResponse
	require.NoError(t, json.Unmarshal([]byte(resp["body"].(string)), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestHello(t *testing.T) {
	_, routes := setupTestRoutes(t)

	resp, err := routes.Hello(context.Background(), lambda.Event{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"statusCode": 200,
		"body":       `{"message": "Hello from lambdarest !!!"}`,
	}, resp)
}

func TestLogin(t *testing.T) {
	app, routes := setupTestRoutes(t)

	t.Run("issues a token", func(t *testing.T) {
		token := login(t, routes)

		claims, err := app.Auth().ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "john", claims["username"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, err := routes.Auth(context.Background(), lambda.Event{
			"body": `{"username":"john","password":"nope"}`,
		})
		require.NoError(t, err)
		assert.Equal(t, 401, resp["statusCode"])
		assert.Equal(t, `"Invalid password"`, resp["body"])
	})

	t.Run("body schema", func(t *testing.T) {
		for _, body := range []any{
			nil,
			`{"username":"john"}`,
			`{"username":"john","password":"password","admin":true}`,
			`{"username":1,"password":"password"}`,
		} {
			resp, err := routes.Auth(context.Background(), lambda.Event{"body": body})
			require.NoError(t, err)
			assert.Equal(t, 400, resp["statusCode"], "body %v", body)
		}
	})
}

func TestLoginWithoutAuthService(t *testing.T) {
	h := NewHandlers(nil, nil)
	req, err := lambda.NewRequest(lambda.Event{"body": `{"username":"a","password":"password"}`})
	require.NoError(t, err)

	_, _, err = h.Login(req)
	assert.Error(t, err)
}

func TestGetUser(t *testing.T) {
	_, routes := setupTestRoutes(t)
	token := login(t, routes)

	t.Run("authenticated", func(t *testing.T) {
		resp, err := routes.GetUser(context.Background(), lambda.Event{
			"headers":        map[string]any{"Authorization": "Bearer " + token},
			"pathParameters": map[string]any{"user_id": "42"},
		})
		require.NoError(t, err)
		assert.Equal(t, 200, resp["statusCode"])
		assert.Equal(t, `{"userId": "42", "name": "John Doe"}`, resp["body"])
	})

	t.Run("anonymous", func(t *testing.T) {
		resp, err := routes.GetUser(context.Background(), lambda.Event{
			"pathParameters": map[string]any{"user_id": "42"},
		})
		require.NoError(t, err)
		assert.Equal(t, 401, resp["statusCode"])
	})

	t.Run("missing path parameter", func(t *testing.T) {
		_, err := routes.GetUser(context.Background(), lambda.Event{
			"headers": map[string]any{"Authorization": "Bearer " + token},
		})
		assert.True(t, errors.Is(err, lambda.ErrBinding))
	})
}

func TestListUsers(t *testing.T) {
	_, routes := setupTestRoutes(t)
	token := login(t, routes)
	auth := map[string]any{"Authorization": "Bearer " + token}

	list := func(t *testing.T, query any) (int, []User) {
		t.Helper()
		resp, err := routes.ListUsers(context.Background(), lambda.Event{
			"headers":               auth,
			"queryStringParameters": query,
		})
		require.NoError(t, err)

		code := resp["statusCode"].(int)
		var users []User
		if code == 200 {
			require.NoError(t, json.Unmarshal([]byte(resp["body"].(string)), &users))
		}
		return code, users
	}

	t.Run("first page by default", func(t *testing.T) {
		code, users := list(t, nil)
		require.Equal(t, 200, code)
		require.Len(t, users, UsersPageSize)
		assert.Equal(t, float64(0), users[0].UserID)
		assert.Equal(t, float64(49), users[49].UserID)
	})

	t.Run("second page", func(t *testing.T) {
		code, users := list(t, map[string]any{"page": "2"})
		require.Equal(t, 200, code)
		assert.Equal(t, float64(50), users[0].UserID)
	})

	t.Run("invalid page", func(t *testing.T) {
		for _, page := range []string{"zero", "0", "-1"} {
			code, _ := list(t, map[string]any{"page": page})
			assert.Equal(t, 400, code, "page %q", page)
		}
	})

	t.Run("unknown query parameter", func(t *testing.T) {
		code, _ := list(t, map[string]any{"sort": "asc"})
		assert.Equal(t, 400, code)
	})
}

func TestSetupRoutesRequiresBearerScheme(t *testing.T) {
	app, err := lambda.NewApp(lambda.AppConfig{})
	require.NoError(t, err)

	_, err = SetupRoutes(app, NewHandlers(nil, nil))
	assert.ErrorIs(t, err, lambda.ErrConfig)
}
