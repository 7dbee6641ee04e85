package model

import (
	"time"

	"github.com/google/uuid"
)

// Role distinguishes administrator and student accounts.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

// User represents an account. Students are identified by roll number,
// admins by email; both fields are unique when present.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	RollNumber   string    `json:"roll_number,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginIdentifier returns what the user types to log in: the roll number
// for students, the email address otherwise.
func (u *User) LoginIdentifier() string {
	if u.RollNumber != "" {
		return u.RollNumber
	}
	return u.Email
}

// SignupRequest is the payload for registering a new account.
// RollNumber is required for students, Email for admins; the service
// enforces the role-conditional rules.
type SignupRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	RollNumber string `json:"roll_number" binding:"omitempty,min=1,max=50"`
	Email      string `json:"email" binding:"omitempty,email"`
	Password   string `json:"password" binding:"required,min=6,max=72"`
	Role       string `json:"role" binding:"required,oneof=admin student"`
}

// LoginRequest is the payload for logging in. Identifier is a roll number
// or an email address.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the payload for updating the current user.
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}
