package identity

import (
	"context"
	"errors"

	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/auth"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

var errInvalidCredentials = shared.NewDomainError(shared.CodeUnauthenticated, "Invalid email or password")

// AuthService handles signup, signin and signout
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		events:     events,
		logger:     logger,
	}
}

// Signup creates an account with the default permission set and signs it in
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	log := logger.For(ctx, s.logger)

	user, err := identity.NewUser(input.Email, input.Name, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "An account with this email already exists")
		}
		log.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to create account", err)
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.events, s.logger, user)
	log.Info("User signed up", zap.String("user_id", user.ID.String()))

	return &AuthResult{User: ToUserView(user), Session: session}, nil
}

// Signin verifies the password and issues a session. Unknown emails and wrong
// passwords produce the same error.
func (s *AuthService) Signin(ctx context.Context, input SigninInput) (*AuthResult, error) {
	log := logger.For(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Signin for unknown email")
			return nil, errInvalidCredentials
		}
		log.Error("Failed to load user for signin", zap.Error(err))
		return nil, shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to sign in", err)
	}

	if !user.VerifyPassword(input.Password) {
		log.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, errInvalidCredentials
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Info("User signed in", zap.String("user_id", user.ID.String()))
	return &AuthResult{User: ToUserView(user), Session: session}, nil
}

// Signout revokes the presented session until it would have expired anyway.
// Signing out without a session is a no-op.
func (s *AuthService) Signout(ctx context.Context, claims *auth.SessionClaims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.RemainingTTL()
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, ttl); err != nil {
		logger.For(ctx, s.logger).Error("Failed to revoke session", zap.Error(err))
		return shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to sign out", err)
	}
	logger.For(ctx, s.logger).Info("User signed out", zap.String("user_id", claims.UserID))
	return nil
}

// Me returns the actor's profile, or nil for anonymous requests
func (s *AuthService) Me(ctx context.Context, actor *identity.Actor) (*UserView, error) {
	if !actor.IsAuthenticated() {
		return nil, nil
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	view := ToUserView(user)
	return &view, nil
}

func (s *AuthService) issue(ctx context.Context, user *identity.User) (*auth.SessionToken, error) {
	session, err := s.jwtService.Issue(user.ID)
	if err != nil {
		logger.For(ctx, s.logger).Error("Failed to issue session token", zap.Error(err))
		return nil, shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to sign in", err)
	}
	return session, nil
}
