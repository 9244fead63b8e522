package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	"lambdarest/pkg/lambda"
)

// LoginTokenDuration is the lifetime of tokens issued by Login
const LoginTokenDuration = 5 * time.Minute

// demoPassword is accepted for every username
const demoPassword = "password"

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login checks the credentials and issues a bearer token. The body shape is
// enforced by AuthSchema before Login runs.
func (h *Handlers) Login(request *lambda.Request) (int, any, error) {
	if h.authService == nil {
		return 0, nil, fmt.Errorf("login route requires the JWT_BEARER auth scheme")
	}

	req, err := decodeLogin(request)
	if err != nil {
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Message: err.Error()}, nil
	}

	// demo credential, any username is accepted with demoPassword
	if req.Password != demoPassword {
		h.logger.WithField("username", req.Username).Warn("Invalid login attempt")
		return http.StatusUnauthorized, "Invalid password", nil
	}

	expiresAt := time.Now().Add(LoginTokenDuration)
	token, err := h.authService.GenerateToken(jwt.MapClaims{
		"username": req.Username,
		"exp":      expiresAt.Unix(),
	})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	h.logger.WithFields(logrus.Fields{
		"username":   req.Username,
		"expires_at": expiresAt,
	}).Info("Token issued")

	return http.StatusOK, LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}

func decodeLogin(request *lambda.Request) (*LoginRequest, error) {
	document, err := request.JSON()
	if err != nil {
		return nil, err
	}
	fields, ok := document.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("body must be an object")
	}

	username, _ := fields["username"].(string)
	password, _ := fields["password"].(string)
	return &LoginRequest{Username: username, Password: password}, nil
}
