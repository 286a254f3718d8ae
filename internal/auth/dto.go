// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/carterperez-dev/delivery-admin/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=128"`
}

type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email,max=255"`
	Password  string `json:"password"   validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name"  validate:"required,min=1,max=100"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required,max=256"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required,max=256"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RegisterResponse struct {
	ID string `json:"id"`
}

type LoginResponse struct {
	User user.UserResponse `json:"user"`
}
