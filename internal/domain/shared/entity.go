package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is anything persisted under a stable uuid.
type Entity interface {
	GetID() uuid.UUID
}

// BaseEntity carries identity and audit timestamps for users, items and orders.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity assigns a fresh id and stamps both timestamps.
func NewBaseEntity() BaseEntity {
	now := Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// Touch records a mutation.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = Now()
}

// Now returns the clock used for audit fields. Postgres keeps microseconds,
// so anything finer would not survive a round trip.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
