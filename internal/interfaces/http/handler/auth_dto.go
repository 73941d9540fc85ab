package handler

import (
	"time"

	appidentity "github.com/sickfits/backend/internal/application/identity"
)

// SignupRequest is the body of POST /auth/signup
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Name     string `json:"name" binding:"required,max=200"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// SigninRequest is the body of POST /auth/signin
type SigninRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RequestResetRequest is the body of POST /auth/request-reset
type RequestResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password
type ResetPasswordRequest struct {
	ResetToken      string `json:"reset_token" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// MeResponse wraps the current user; User is null for anonymous callers
type MeResponse struct {
	User *appidentity.UserView `json:"user"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// RequestResetResponse confirms a reset request
type RequestResetResponse struct {
	Message       string    `json:"message"`
	MailDelivered bool      `json:"mail_delivered"`
	ExpiresAt     time.Time `json:"expires_at"`
}
