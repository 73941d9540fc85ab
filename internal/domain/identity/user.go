package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"regexp"
	"strings"
	"time"

	"github.com/sickfits/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 10

// resetTokenBytes is the entropy of a password reset token
const resetTokenBytes = 20

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User represents a storefront account
// It is the aggregate root for identity operations
type User struct {
	shared.BaseAggregateRoot
	Email            string
	Name             string
	PasswordHash     string
	Permissions      PermissionSet
	ResetToken       string
	ResetTokenExpiry *time.Time
}

// NewUser creates a user with the default permission set
func NewUser(email, name, password string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to hash password", err)
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		PasswordHash:      passwordHash,
		Permissions:       DefaultPermissions(),
	}

	user.AddDomainEvent(NewUserSignedUpEvent(user))

	return user, nil
}

// NormalizeEmail case-folds an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Actor returns the public profile used as request identity
func (u *User) Actor() *Actor {
	return &Actor{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Permissions: u.Permissions,
	}
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to hash password", err)
	}

	u.PasswordHash = passwordHash
	u.Touch()
	return nil
}

// ReplacePermissions sets the permission set wholesale; no merge with the old set
func (u *User) ReplacePermissions(perms PermissionSet) {
	previous := u.Permissions
	u.Permissions = perms
	u.Touch()

	u.AddDomainEvent(NewUserPermissionsUpdatedEvent(u, previous))
}

// IssueResetToken generates a random token valid for ttl from now
func (u *User) IssueResetToken(now time.Time, ttl time.Duration) (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to generate reset token", err)
	}

	token := hex.EncodeToString(buf)
	expiry := now.Add(ttl)
	u.ResetToken = token
	u.ResetTokenExpiry = &expiry
	u.UpdatedAt = now

	u.AddDomainEvent(NewPasswordResetRequestedEvent(u, expiry))

	return token, nil
}

// ResetTokenValid reports whether token matches the stored one and has not expired at now
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	if u.ResetToken == "" || token == "" || u.ResetTokenExpiry == nil {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(u.ResetToken), []byte(token)) != 1 {
		return false
	}
	return now.Before(*u.ResetTokenExpiry)
}

// CompleteReset sets a new password from a valid reset token and clears the token
func (u *User) CompleteReset(token, newPassword string, now time.Time) error {
	if !u.ResetTokenValid(token, now) {
		return shared.ErrInvalidOrExpiredToken
	}
	if err := u.SetPassword(newPassword); err != nil {
		return err
	}
	u.ResetToken = ""
	u.ResetTokenExpiry = nil
	u.UpdatedAt = now

	u.AddDomainEvent(NewUserPasswordResetEvent(u))
	return nil
}

// Validation functions

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError(shared.CodeValidation, "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError(shared.CodeValidation, "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError(shared.CodeValidation, "Invalid email format")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeValidation, "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError(shared.CodeValidation, "Name cannot exceed 200 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError(shared.CodeValidation, "Password cannot be empty")
	}
	if len(password) < 6 {
		return shared.NewDomainError(shared.CodeValidation, "Password must be at least 6 characters")
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError(shared.CodeValidation, "Password cannot exceed 72 bytes")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
