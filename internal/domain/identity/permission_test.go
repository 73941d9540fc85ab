package identity

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermission(t *testing.T) {
	for _, name := range AllPermissionNames() {
		p, err := ParsePermission(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.String())
	}

	p, err := ParsePermission(" itemdelete ")
	require.NoError(t, err)
	assert.Equal(t, PermissionItemDelete, p)

	_, err = ParsePermission("SUPERUSER")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestPermissionSet(t *testing.T) {
	t.Run("names in vocabulary order without duplicates", func(t *testing.T) {
		s, err := ParsePermissionSet([]string{"PERMISSIONUPDATE", "ADMIN", "ADMIN"})
		require.NoError(t, err)
		assert.Equal(t, []string{"ADMIN", "PERMISSIONUPDATE"}, s.Names())
	})

	t.Run("intersects", func(t *testing.T) {
		user := NewPermissionSet(PermissionUser, PermissionItemCreate)
		assert.True(t, user.Intersects(NewPermissionSet(PermissionItemCreate, PermissionAdmin)))
		assert.False(t, user.Intersects(NewPermissionSet(PermissionAdmin, PermissionItemDelete)))
		assert.False(t, user.Intersects(0))
	})

	t.Run("string round trip", func(t *testing.T) {
		s := NewPermissionSet(PermissionAdmin, PermissionUser, PermissionItemUpdate)
		parsed, err := ParsePermissionString(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)

		empty, err := ParsePermissionString("")
		require.NoError(t, err)
		assert.True(t, empty.IsEmpty())
	})

	t.Run("json uses names", func(t *testing.T) {
		data, err := json.Marshal(NewPermissionSet(PermissionUser, PermissionAdmin))
		require.NoError(t, err)
		assert.JSONEq(t, `["ADMIN","USER"]`, string(data))

		var decoded PermissionSet
		require.NoError(t, json.Unmarshal([]byte(`["ITEMCREATE","USER"]`), &decoded))
		assert.Equal(t, NewPermissionSet(PermissionItemCreate, PermissionUser), decoded)

		assert.Error(t, json.Unmarshal([]byte(`["ROOT"]`), &decoded))
	})
}

func TestAuthorize(t *testing.T) {
	t.Run("anonymous is unauthenticated", func(t *testing.T) {
		err := Authorize(nil, PermissionAdmin)
		assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	})

	t.Run("passes on intersection", func(t *testing.T) {
		actor := &Actor{UserID: uuid.New(), Permissions: NewPermissionSet(PermissionUser, PermissionPermissionUpdate)}
		assert.NoError(t, Authorize(actor, PermissionAdmin, PermissionPermissionUpdate))
	})

	t.Run("forbidden without intersection", func(t *testing.T) {
		actor := &Actor{UserID: uuid.New(), Permissions: DefaultPermissions()}
		err := Authorize(actor, PermissionAdmin, PermissionPermissionUpdate)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Contains(t, err.Error(), "ADMIN, PERMISSIONUPDATE")
	})

	t.Run("empty requirement grants nothing", func(t *testing.T) {
		actor := &Actor{UserID: uuid.New(), Permissions: NewPermissionSet(PermissionAdmin)}
		err := Authorize(actor)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Contains(t, err.Error(), "(none)")
	})
}

func TestActorContext(t *testing.T) {
	assert.Nil(t, ActorFromContext(context.Background()))

	actor := &Actor{UserID: uuid.New()}
	ctx := WithActor(context.Background(), actor)
	assert.Same(t, actor, ActorFromContext(ctx))

	var anonymous *Actor
	assert.False(t, anonymous.IsAuthenticated())
	assert.True(t, actor.Owns(actor.UserID))
	assert.False(t, actor.Owns(uuid.New()))
}
