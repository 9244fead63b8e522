package handlers

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"lambdarest/internal/middleware"
	"lambdarest/pkg/lambda"
)

// UsersPageSize is the number of users returned by one ListUsers page
const UsersPageSize = 50

// Handlers holds the sample API handlers
type Handlers struct {
	authService *middleware.AuthService
	logger      *logrus.Logger
}

// NewHandlers creates the sample handlers. authService may be nil when the
// app does not issue tokens.
func NewHandlers(authService *middleware.AuthService, logger *logrus.Logger) *Handlers {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handlers{
		authService: authService,
		logger:      logger,
	}
}

// MessageResponse is the body of the hello route
type MessageResponse struct {
	Message string `json:"message"`
}

// User is the public view of a user
type User struct {
	UserID any    `json:"userId"`
	Name   string `json:"name,omitempty"`
}

// Hello answers without reading the request
func (h *Handlers) Hello() (int, any) {
	return http.StatusOK, MessageResponse{Message: "Hello from lambdarest !!!"}
}

// GetUser returns the user named by the user_id path parameter. The caller
// identity comes from the verified token.
func (h *Handlers) GetUser(userID string, payload lambda.JWTPayload) (int, any) {
	h.logger.WithFields(logrus.Fields{
		"user_id":  userID,
		"username": payload["username"],
	}).Debug("Fetching user")

	return http.StatusOK, User{UserID: userID, Name: "John Doe"}
}

// ListUsers returns one page of users. The page query parameter starts at 1.
func (h *Handlers) ListUsers(request *lambda.Request) (int, any) {
	page := 1
	if raw, ok := request.QueryParams()["page"].(string); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid query parameter",
				Message: "page must be a positive integer",
			}
		}
		page = n
	}

	users := make([]User, 0, UsersPageSize)
	for i := (page - 1) * UsersPageSize; i < page*UsersPageSize; i++ {
		users = append(users, User{UserID: i})
	}

	return http.StatusOK, users
}
