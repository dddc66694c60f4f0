package api

import (
	"github.com/phrazzld/task-manager-api/internal/domain"
)

// RegisterRequest defines the payload for POST /users.
// Content rules beyond presence live in domain.NewUser.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
	Age      int    `json:"age"`
}

// LoginRequest defines the payload for POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by registration and login.
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// CreateTaskRequest defines the payload for POST /tasks.
type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}
