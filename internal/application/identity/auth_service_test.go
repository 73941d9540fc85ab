package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func createAuthService(userRepo *MockUserRepository, publisher *MockEventPublisher, blacklist auth.TokenBlacklist) *AuthService {
	return NewAuthService(userRepo, newTestJWTService(), blacklist, publisher, zap.NewNop())
}

func TestAuthService_Signup_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	publisher := new(MockEventPublisher)

	userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	svc := createAuthService(userRepo, publisher, auth.NewInMemoryTokenBlacklist())
	result, err := svc.Signup(ctx, SignupInput{Email: "Wes@Example.com", Name: "Wes", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "wes@example.com", result.User.Email)
	assert.Equal(t, []string{"USER"}, result.User.Permissions)
	require.NotNil(t, result.Session)
	assert.NotEmpty(t, result.Session.Value)

	claims, err := newTestJWTService().Parse(result.Session.Value)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.String(), claims.UserID)

	userRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	publisher := new(MockEventPublisher)

	userRepo.On("Create", ctx, mock.AnythingOfType("*identity.User")).Return(shared.ErrAlreadyExists)

	svc := createAuthService(userRepo, publisher, auth.NewInMemoryTokenBlacklist())
	result, err := svc.Signup(ctx, SignupInput{Email: "wes@example.com", Name: "Wes", Password: "secret1"})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAuthService_Signup_InvalidInput(t *testing.T) {
	svc := createAuthService(new(MockUserRepository), new(MockEventPublisher), auth.NewInMemoryTokenBlacklist())

	_, err := svc.Signup(context.Background(), SignupInput{Email: "not-an-email", Name: "Wes", Password: "secret1"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Signup(context.Background(), SignupInput{Email: "wes@example.com", Name: "Wes", Password: "123"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestAuthService_Signin_Success(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "wes@example.com", "secret1")

	userRepo.On("FindByEmail", ctx, "wes@example.com").Return(user, nil)

	svc := createAuthService(userRepo, new(MockEventPublisher), auth.NewInMemoryTokenBlacklist())
	result, err := svc.Signin(ctx, SigninInput{Email: "wes@example.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.Session.ID)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Signin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "wes@example.com", "secret1")

	userRepo.On("FindByEmail", ctx, "wes@example.com").Return(user, nil)
	userRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, shared.ErrNotFound)

	svc := createAuthService(userRepo, new(MockEventPublisher), auth.NewInMemoryTokenBlacklist())

	_, wrongPassword := svc.Signin(ctx, SigninInput{Email: "wes@example.com", Password: "nope123"})
	_, unknownEmail := svc.Signin(ctx, SigninInput{Email: "ghost@example.com", Password: "secret1"})

	assert.ErrorIs(t, wrongPassword, shared.ErrUnauthenticated)
	assert.ErrorIs(t, unknownEmail, shared.ErrUnauthenticated)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthService_Signin_RepositoryFailure(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", ctx, "wes@example.com").Return(nil, errors.New("connection refused"))

	svc := createAuthService(userRepo, new(MockEventPublisher), auth.NewInMemoryTokenBlacklist())
	_, err := svc.Signin(ctx, SigninInput{Email: "wes@example.com", Password: "secret1"})

	assert.ErrorIs(t, err, shared.ErrInternal)
}

func TestAuthService_Signout_RevokesToken(t *testing.T) {
	ctx := context.Background()
	blacklist := auth.NewInMemoryTokenBlacklist()
	jwtService := newTestJWTService()
	svc := NewAuthService(new(MockUserRepository), jwtService, blacklist, nil, zap.NewNop())

	session, err := jwtService.Issue(uuid.New())
	require.NoError(t, err)
	claims, err := jwtService.Parse(session.Value)
	require.NoError(t, err)

	require.NoError(t, svc.Signout(ctx, claims))

	revoked, err := blacklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestAuthService_Signout_WithoutSession(t *testing.T) {
	svc := createAuthService(new(MockUserRepository), new(MockEventPublisher), auth.NewInMemoryTokenBlacklist())
	assert.NoError(t, svc.Signout(context.Background(), nil))
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	user := createTestUser(t, "wes@example.com", "secret1")
	userRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	userRepo.On("FindByID", ctx, mock.Anything).Return(nil, shared.ErrNotFound)

	svc := createAuthService(userRepo, new(MockEventPublisher), auth.NewInMemoryTokenBlacklist())

	t.Run("anonymous returns nil", func(t *testing.T) {
		view, err := svc.Me(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, view)
	})

	t.Run("signed in returns profile", func(t *testing.T) {
		view, err := svc.Me(ctx, user.Actor())
		require.NoError(t, err)
		require.NotNil(t, view)
		assert.Equal(t, "wes@example.com", view.Email)
	})

	t.Run("deleted user returns nil", func(t *testing.T) {
		view, err := svc.Me(ctx, &identity.Actor{UserID: uuid.New()})
		require.NoError(t, err)
		assert.Nil(t, view)
	})
}
