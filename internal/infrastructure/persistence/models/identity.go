package models

import (
	"time"

	"github.com/sickfits/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	BaseModel
	Email            string     `gorm:"type:varchar(200);not null;uniqueIndex:ux_users_email"`
	Name             string     `gorm:"type:varchar(200);not null"`
	PasswordHash     string     `gorm:"type:varchar(255);not null"`
	Permissions      string     `gorm:"type:varchar(255);not null;default:'USER'"`
	ResetToken       *string    `gorm:"type:varchar(100);uniqueIndex:ux_users_reset_token"`
	ResetTokenExpiry *time.Time `gorm:"column:reset_token_expiry"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User.
// An unreadable permission column degrades to the empty set, which grants nothing.
func (m *UserModel) ToDomain() *identity.User {
	perms, err := identity.ParsePermissionString(m.Permissions)
	if err != nil {
		perms = identity.NewPermissionSet()
	}
	u := &identity.User{
		BaseAggregateRoot: m.aggregateRoot(),
		Email:             m.Email,
		Name:              m.Name,
		PasswordHash:      m.PasswordHash,
		Permissions:       perms,
		ResetTokenExpiry:  m.ResetTokenExpiry,
	}
	if m.ResetToken != nil {
		u.ResetToken = *m.ResetToken
	}
	return u
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Email = u.Email
	m.Name = u.Name
	m.PasswordHash = u.PasswordHash
	m.Permissions = u.Permissions.String()
	m.ResetToken = nil
	if u.ResetToken != "" {
		token := u.ResetToken
		m.ResetToken = &token
	}
	m.ResetTokenExpiry = u.ResetTokenExpiry
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
