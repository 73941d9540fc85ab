package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/infrastructure/auth"
)

// SignupInput contains the input for account creation
type SignupInput struct {
	Email    string
	Name     string
	Password string
}

// SigninInput contains the input for password sign in
type SigninInput struct {
	Email    string
	Password string
}

// ResetPasswordInput contains the input for completing a password reset
type ResetPasswordInput struct {
	ResetToken      string
	Password        string
	ConfirmPassword string
}

// UserView is the public profile of a user. It never carries the password
// hash or the reset token.
type UserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToUserView converts a domain user to its public profile
func ToUserView(u *identity.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Permissions: u.Permissions.Names(),
		CreatedAt:   u.CreatedAt,
	}
}

// AuthResult is returned by every operation that signs a user in
type AuthResult struct {
	User    UserView
	Session *auth.SessionToken
}

// RequestResetResult reports the outcome of a reset request. The request
// succeeds even when the mail could not be delivered.
type RequestResetResult struct {
	MailDelivered bool
	ExpiresAt     time.Time
}
