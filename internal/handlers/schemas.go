package handlers

// AuthSchema is the body schema of the login route
var AuthSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"username": map[string]any{"type": "string"},
		"password": map[string]any{"type": "string"},
	},
	"required":             []any{"username", "password"},
	"additionalProperties": false,
}

// ListUsersQuerySchema is the query string schema of the list users route
var ListUsersQuerySchema = map[string]any{
	"type": []any{"object", "null"},
	"properties": map[string]any{
		"page": map[string]any{"type": "string"},
	},
	"additionalProperties": false,
}
