package identity

import (
	"context"
	"errors"
	"time"

	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/auth"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"github.com/sickfits/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// ResetMailer delivers password reset links
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetURL string) error
}

// PasswordResetConfig holds the reset token lifetime and the storefront URL
// the reset link points at
type PasswordResetConfig struct {
	TokenTTL    time.Duration
	FrontendURL string
}

// PasswordResetService issues and redeems password reset tokens
type PasswordResetService struct {
	userRepo   identity.UserRepository
	mailer     ResetMailer
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	events     shared.EventPublisher
	cfg        PasswordResetConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(
	userRepo identity.UserRepository,
	mailer ResetMailer,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	cfg PasswordResetConfig,
	logger *zap.Logger,
) *PasswordResetService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	return &PasswordResetService{
		userRepo:   userRepo,
		mailer:     mailer,
		jwtService: jwtService,
		blacklist:  blacklist,
		events:     events,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// RequestReset stores a fresh reset token for the account and mails the link.
// A mail failure does not fail the request; the token stays valid.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (*RequestResetResult, error) {
	log := logger.For(ctx, s.logger)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "No such user found for email "+identity.NormalizeEmail(email))
		}
		return nil, err
	}

	token, err := user.IssueResetToken(s.now(), s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveResetToken(ctx, user.ID, token, *user.ResetTokenExpiry); err != nil {
		log.Error("Failed to store reset token", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to request password reset", err)
	}
	publishEvents(ctx, s.events, s.logger, user)

	result := &RequestResetResult{MailDelivered: true, ExpiresAt: *user.ResetTokenExpiry}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, mail.ResetURL(s.cfg.FrontendURL, token)); err != nil {
		log.Error("Failed to send password reset mail",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		result.MailDelivered = false
	}

	log.Info("Password reset requested", zap.String("user_id", user.ID.String()))
	return result, nil
}

// ResetPassword redeems a reset token. The new hash and the cleared token are
// written in one guarded statement, so a token works at most once. Sessions
// issued before the reset are revoked and a fresh one is returned.
func (s *PasswordResetService) ResetPassword(ctx context.Context, input ResetPasswordInput) (*AuthResult, error) {
	log := logger.For(ctx, s.logger)

	if input.Password != input.ConfirmPassword {
		return nil, shared.NewDomainError(shared.CodeValidation, "Your passwords don't match")
	}

	user, err := s.userRepo.FindByResetToken(ctx, input.ResetToken)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	now := s.now()
	if err := user.CompleteReset(input.ResetToken, input.Password, now); err != nil {
		return nil, err
	}

	ok, err := s.userRepo.CompletePasswordReset(ctx, user.ID, input.ResetToken, user.PasswordHash, now)
	if err != nil {
		log.Error("Failed to store new password", zap.String("user_id", user.ID.String()), zap.Error(err))
		return nil, shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to reset password", err)
	}
	if !ok {
		return nil, shared.ErrInvalidOrExpiredToken
	}

	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.jwtService.Expiration()); err != nil {
		log.Error("Failed to revoke sessions after password reset",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	session, err := s.jwtService.Issue(user.ID)
	if err != nil {
		log.Error("Failed to issue session token", zap.Error(err))
		return nil, shared.NewDomainErrorWithCause(shared.CodeInternal, "Failed to sign in", err)
	}

	publishEvents(ctx, s.events, s.logger, user)
	log.Info("Password reset completed", zap.String("user_id", user.ID.String()))

	return &AuthResult{User: ToUserView(user), Session: session}, nil
}
