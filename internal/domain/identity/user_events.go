package identity

import (
	"time"

	"github.com/sickfits/backend/internal/domain/shared"
)

// Aggregate type constant for User
const AggregateTypeUser = "User"

// User domain event types
const (
	EventTypeUserSignedUp           = "UserSignedUp"
	EventTypeUserPermissionsUpdated = "UserPermissionsUpdated"
	EventTypePasswordResetRequested = "PasswordResetRequested"
	EventTypeUserPasswordReset      = "UserPasswordReset"
)

// UserSignedUpEvent is published when an account is created
type UserSignedUpEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUserSignedUpEvent creates a new UserSignedUpEvent
func NewUserSignedUpEvent(user *User) *UserSignedUpEvent {
	return &UserSignedUpEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserSignedUp, AggregateTypeUser, user.ID),
		Email:           user.Email,
		Name:            user.Name,
	}
}

// UserPermissionsUpdatedEvent is published when a user's permission set is replaced
type UserPermissionsUpdatedEvent struct {
	shared.BaseDomainEvent
	Previous []string `json:"previous"`
	Current  []string `json:"current"`
}

// NewUserPermissionsUpdatedEvent creates a new UserPermissionsUpdatedEvent
func NewUserPermissionsUpdatedEvent(user *User, previous PermissionSet) *UserPermissionsUpdatedEvent {
	return &UserPermissionsUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPermissionsUpdated, AggregateTypeUser, user.ID),
		Previous:        previous.Names(),
		Current:         user.Permissions.Names(),
	}
}

// PasswordResetRequestedEvent is published when a reset token is issued.
// The token itself is never part of the event.
type PasswordResetRequestedEvent struct {
	shared.BaseDomainEvent
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewPasswordResetRequestedEvent creates a new PasswordResetRequestedEvent
func NewPasswordResetRequestedEvent(user *User, expiresAt time.Time) *PasswordResetRequestedEvent {
	return &PasswordResetRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePasswordResetRequested, AggregateTypeUser, user.ID),
		Email:           user.Email,
		ExpiresAt:       expiresAt,
	}
}

// UserPasswordResetEvent is published after a successful password reset
type UserPasswordResetEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
}

// NewUserPasswordResetEvent creates a new UserPasswordResetEvent
func NewUserPasswordResetEvent(user *User) *UserPasswordResetEvent {
	return &UserPasswordResetEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserPasswordReset, AggregateTypeUser, user.ID),
		Email:           user.Email,
	}
}
