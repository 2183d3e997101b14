package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/Avannubo/subirananadons-backend/pkg/enums"
)

// LoginInput is the credentials payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RegisterInput creates a customer account. The confirmation field must
// match the password before any account work happens.
type RegisterInput struct {
	Name            string `json:"name" validate:"required,min=2,max=120"`
	LastName        string `json:"last_name" validate:"required,min=2,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,max=32"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// RefreshInput rotates a session.
type RefreshInput struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// SessionDTO is the token pair handed to a signed-in client.
type SessionDTO struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserDTO   `json:"user"`
}

// UserDTO is the public shape of an account.
type UserDTO struct {
	ID       uuid.UUID      `json:"id"`
	Email    string         `json:"email"`
	Name     string         `json:"name"`
	LastName string         `json:"last_name"`
	Role     enums.UserRole `json:"role"`
}
