package testutil

import (
	"context"
	"testing"

	"github.com/sickfits/backend/internal/domain/catalog"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/infrastructure/persistence"
	"github.com/sickfits/backend/internal/infrastructure/seed"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Fixtures inserts generated users and items. The faker seed is fixed so a
// failing test sees the same data on every run.
type Fixtures struct {
	gen   *seed.Generator
	users identity.UserRepository
	items catalog.ItemRepository
}

// NewFixtures creates fixtures writing to db
func NewFixtures(db *gorm.DB) *Fixtures {
	return &Fixtures{
		gen:   seed.NewGenerator(2024),
		users: persistence.NewGormUserRepository(db),
		items: persistence.NewGormItemRepository(db),
	}
}

// User inserts a shopper with the default permissions. Its password is
// seed.DefaultPassword.
func (f *Fixtures) User(t *testing.T, perms ...identity.Permission) *identity.User {
	t.Helper()

	user, err := f.gen.User()
	require.NoError(t, err)
	if len(perms) > 0 {
		user.ReplacePermissions(identity.NewPermissionSet(perms...))
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

// Item inserts an item owned by owner
func (f *Fixtures) Item(t *testing.T, owner *identity.User) *catalog.Item {
	t.Helper()

	item, err := f.gen.Item(owner.ID)
	require.NoError(t, err)
	require.NoError(t, f.items.Create(context.Background(), item))
	return item
}
