package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/sickfits/backend/internal/application/identity"
	"github.com/sickfits/backend/internal/interfaces/http/dto"
	"github.com/sickfits/backend/internal/interfaces/http/middleware"
)

// UpdatePermissionsRequest replaces a user's permission set
type UpdatePermissionsRequest struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// UserHandler handles the admin user screens
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers lists every account for permission management
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.ListRequest
	if !h.bindQuery(c, &req) {
		return
	}

	page, err := h.userService.ListUsers(c.Request.Context(), middleware.GetActor(c), req.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// UpdatePermissions replaces the target user's permissions
func (h *UserHandler) UpdatePermissions(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdatePermissionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdatePermissions(c.Request.Context(), middleware.GetActor(c), id, req.Permissions)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
