package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/shared"
)

// Actor is the resolved identity behind a request: the public profile of the
// signed-in user. A nil *Actor means the request is anonymous.
type Actor struct {
	UserID      uuid.UUID     `json:"id"`
	Email       string        `json:"email"`
	Name        string        `json:"name"`
	Permissions PermissionSet `json:"permissions"`
}

// IsAuthenticated reports whether the actor carries a user identity
func (a *Actor) IsAuthenticated() bool {
	return a != nil && a.UserID != uuid.Nil
}

// Owns reports whether the actor is the given user
func (a *Actor) Owns(userID uuid.UUID) bool {
	return a.IsAuthenticated() && a.UserID == userID
}

// RequireAuthenticated fails with ErrUnauthenticated for anonymous actors
func RequireAuthenticated(actor *Actor) error {
	if !actor.IsAuthenticated() {
		return shared.ErrUnauthenticated
	}
	return nil
}

// Authorize passes when the actor's permission set intersects required.
// It fails closed: anonymous actors get ErrUnauthenticated and an empty
// required set grants nothing.
func Authorize(actor *Actor, required ...Permission) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.Permissions.Intersects(NewPermissionSet(required...)) {
		names := NewPermissionSet(required...).Names()
		return shared.NewDomainError(shared.CodeForbidden,
			"You do not have sufficient permissions: requires one of "+joinNames(names))
	}
	return nil
}

func joinNames(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

type actorContextKey struct{}

// WithActor attaches the resolved actor to ctx
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor attached by WithActor, or nil
func ActorFromContext(ctx context.Context) *Actor {
	if ctx == nil {
		return nil
	}
	actor, _ := ctx.Value(actorContextKey{}).(*Actor)
	return actor
}
