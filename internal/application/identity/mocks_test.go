package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/auth"
	"github.com/sickfits/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, token string) (*identity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) UpdatePermissions(ctx context.Context, id uuid.UUID, perms identity.PermissionSet) error {
	args := m.Called(ctx, id, perms)
	return args.Error(0)
}

func (m *MockUserRepository) SaveResetToken(ctx context.Context, id uuid.UUID, token string, expiry time.Time) error {
	args := m.Called(ctx, id, token, expiry)
	return args.Error(0)
}

func (m *MockUserRepository) CompletePasswordReset(ctx context.Context, id uuid.UUID, token, passwordHash string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, token, passwordHash, now)
	return args.Bool(0), args.Error(1)
}

// MockMailer is a mock implementation of ResetMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	args := m.Called(ctx, to, name, resetURL)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-32-characters-long",
		Expiration: time.Hour,
		Issuer:     "sickfits-test",
	})
}

func createTestUser(t interface{ Fatalf(string, ...any) }, email, password string) *identity.User {
	user, err := identity.NewUser(email, "Test User", password)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	user.ClearDomainEvents()
	return user
}
