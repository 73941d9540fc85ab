package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// UserService manages accounts on behalf of administrators
type UserService struct {
	userRepo identity.UserRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, events shared.EventPublisher, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		events:   events,
		logger:   logger,
	}
}

// ListUsers returns every account ordered by name
func (s *UserService) ListUsers(ctx context.Context, actor *identity.Actor, filter shared.Filter) (*shared.Paginated[UserView], error) {
	if err := identity.Authorize(actor, identity.PermissionAdmin, identity.PermissionPermissionUpdate); err != nil {
		return nil, err
	}

	filter = filter.Normalize(50, 200)
	users, total, err := s.userRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, ToUserView(u))
	}
	page := shared.NewPaginated(views, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdatePermissions replaces the target user's permission set wholesale
func (s *UserService) UpdatePermissions(ctx context.Context, actor *identity.Actor, userID uuid.UUID, names []string) (*UserView, error) {
	if err := identity.Authorize(actor, identity.PermissionAdmin, identity.PermissionPermissionUpdate); err != nil {
		return nil, err
	}

	perms, err := identity.ParsePermissionSet(names)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "User not found")
		}
		return nil, err
	}

	user.ReplacePermissions(perms)
	if err := s.userRepo.UpdatePermissions(ctx, user.ID, user.Permissions); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.events, s.logger, user)
	logger.For(ctx, s.logger).Info("User permissions updated",
		zap.String("user_id", user.ID.String()),
		zap.String("updated_by", actor.UserID.String()),
		zap.Strings("permissions", perms.Names()),
	)

	view := ToUserView(user)
	return &view, nil
}
