package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user; a taken email yields shared.ErrAlreadyExists
	Create(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by case-folded email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByResetToken finds the user holding the given reset token
	FindByResetToken(ctx context.Context, token string) (*User, error)

	// FindAll returns users ordered by name with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]*User, int64, error)

	// UpdatePermissions overwrites the stored permission set
	UpdatePermissions(ctx context.Context, id uuid.UUID, perms PermissionSet) error

	// SaveResetToken stores a reset token and its expiry
	SaveResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error

	// CompletePasswordReset writes the new hash and clears the reset fields in one
	// statement, guarded on the token still being stored and unexpired at now.
	// It returns false when the token was consumed or has expired.
	CompletePasswordReset(ctx context.Context, id uuid.UUID, token, passwordHash string, now time.Time) (bool, error)
}
