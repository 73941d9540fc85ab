package shared

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	got []DomainEvent
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, events ...DomainEvent) error {
	p.got = append(p.got, events...)
	return p.err
}

type testEvent struct {
	BaseDomainEvent
}

func newAggregate(events ...string) *BaseAggregateRoot {
	agg := NewBaseAggregateRoot()
	for _, typ := range events {
		agg.AddDomainEvent(&testEvent{NewBaseDomainEvent(typ, "Test", agg.ID)})
	}
	return &agg
}

func TestDrainEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes pending events in order and clears them", func(t *testing.T) {
		agg := newAggregate("ItemCreated", "ItemUpdated")
		pub := &recordingPublisher{}

		require.NoError(t, DrainEvents(ctx, pub, agg))
		require.Len(t, pub.got, 2)
		assert.Equal(t, "ItemCreated", pub.got[0].EventType())
		assert.Equal(t, "ItemUpdated", pub.got[1].EventType())
		assert.Equal(t, agg.ID, pub.got[0].AggregateID())
		assert.Empty(t, agg.GetDomainEvents())
	})

	t.Run("nil publisher still clears", func(t *testing.T) {
		agg := newAggregate("UserSignedUp")
		require.NoError(t, DrainEvents(ctx, nil, agg))
		assert.Empty(t, agg.GetDomainEvents())
	})

	t.Run("nothing pending skips the publisher", func(t *testing.T) {
		pub := &recordingPublisher{err: errors.New("should not be called")}
		require.NoError(t, DrainEvents(ctx, pub, newAggregate()))
		assert.Empty(t, pub.got)
	})

	t.Run("publisher error is returned after clearing", func(t *testing.T) {
		agg := newAggregate("OrderPlaced")
		pub := &recordingPublisher{err: errors.New("bus stopped")}
		assert.EqualError(t, DrainEvents(ctx, pub, agg), "bus stopped")
		assert.Empty(t, agg.GetDomainEvents())
	})
}

func TestBaseEntity(t *testing.T) {
	e := NewBaseEntity()
	assert.NotEqual(t, uuid.Nil, e.GetID())
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
	assert.Equal(t, time.UTC, e.CreatedAt.Location())
	assert.Zero(t, e.CreatedAt.Nanosecond()%int(time.Microsecond))

	before := e.UpdatedAt
	time.Sleep(2 * time.Millisecond)
	e.Touch()
	assert.True(t, e.UpdatedAt.After(before))
	assert.Equal(t, before, e.CreatedAt)
}
