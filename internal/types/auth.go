package types

import (
	"time"

	"github.com/google/uuid"
)

// SignUpRequest is the body of POST /auth/register.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name,omitempty" validate:"max=200"`
}

// SignInRequest is the body of POST /auth/login.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest is the body of PUT /auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,nefield=CurrentPassword"`
}

// User is the public view of an account. The password hash never leaves the db package.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionResponse is returned by sign-up and sign-in.
type SessionResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Validate validates the SignUpRequest.
func (r *SignUpRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SignInRequest.
func (r *SignInRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ChangePasswordRequest.
func (r *ChangePasswordRequest) Validate() error {
	return validate.Struct(r)
}
