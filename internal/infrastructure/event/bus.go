package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// InMemoryEventBus implements shared.EventBus with in-process pub/sub.
// Handler failures are logged and never reach the publisher.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	async    bool

	// mu orders wg.Add in Publish against the running flip in Stop
	mu      sync.RWMutex
	running bool
	wg      sync.WaitGroup
}

// BusOption configures an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithAsyncDispatch runs each handler on its own goroutine, detached from the
// publisher's cancellation. Stop waits for in-flight handlers.
func WithAsyncDispatch() BusOption {
	return func(b *InMemoryEventBus) {
		b.async = true
	}
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(zapLogger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   zapLogger,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.running = true
	return b
}

// Publish delivers events to their handlers. Events published after Stop are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	if !b.running {
		b.mu.RUnlock()
		b.logger.Warn("event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}
	if b.async {
		detached := context.WithoutCancel(ctx)
		for _, event := range events {
			for _, handler := range b.registry.Handlers(event.EventType()) {
				b.wg.Add(1)
				go func(h shared.EventHandler, e shared.DomainEvent) {
					defer b.wg.Done()
					b.dispatch(detached, h, e)
				}(handler, event)
			}
		}
		b.mu.RUnlock()
		return nil
	}
	b.mu.RUnlock()

	// Synchronous handlers may publish in turn, so they run outside the lock
	for _, event := range events {
		for _, handler := range b.registry.Handlers(event.EventType()) {
			b.dispatch(ctx, handler, event)
		}
	}
	return nil
}

// Subscribe registers a handler; with no explicit types the handler's own EventTypes are used
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start (re)enables publishing
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.mu.Lock()
	b.running = true
	b.mu.Unlock()
	b.logger.Info("event bus started", zap.Bool("async", b.async))
	return nil
}

// Stop stops accepting events and waits for in-flight async handlers or ctx
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	// Once running is false under the write lock no Publish can reach wg.Add,
	// so Wait below never races a fresh Add
	b.mu.Lock()
	b.running = false
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) {
	log := logger.For(ctx, b.logger).With(
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)
	defer func() {
		if r := recover(); r != nil {
			log.Error("event handler panicked", zap.Any("panic", r))
		}
	}()

	if err := handler.Handle(ctx, event); err != nil {
		log.Error("event handler failed", zap.Error(err))
	}
}

// Ensure InMemoryEventBus implements EventBus
var _ shared.EventBus = (*InMemoryEventBus)(nil)
