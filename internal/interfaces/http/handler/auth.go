package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/sickfits/backend/internal/application/identity"
	"github.com/sickfits/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles sign up, sign in and password reset
type AuthHandler struct {
	BaseHandler
	authService  *appidentity.AuthService
	resetService *appidentity.PasswordResetService
	cookie       *middleware.SessionCookie
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, resetService *appidentity.PasswordResetService, cookie *middleware.SessionCookie) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		resetService: resetService,
		cookie:       cookie,
	}
}

// Signup creates an account and signs it in
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), appidentity.SignupInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.cookie.Set(c, result.Session)
	h.Created(c, result.User)
}

// Signin verifies credentials and sets the session cookie
func (h *AuthHandler) Signin(c *gin.Context) {
	var req SigninRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Signin(c.Request.Context(), appidentity.SigninInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.cookie.Set(c, result.Session)
	h.Success(c, result.User)
}

// Signout revokes the current token and clears the cookie. Anonymous
// callers get the same answer.
func (h *AuthHandler) Signout(c *gin.Context) {
	if err := h.authService.Signout(c.Request.Context(), middleware.GetSessionClaims(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.cookie.Clear(c)
	h.Success(c, MessageResponse{Message: "Goodbye!"})
}

// Me returns the signed in user, or null
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MeResponse{User: user})
}

// RequestReset mails a password reset link
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req RequestResetRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.resetService.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RequestResetResponse{
		Message:       "Check your email for a reset link",
		MailDelivered: result.MailDelivered,
		ExpiresAt:     result.ExpiresAt,
	})
}

// ResetPassword completes a reset and signs the user in
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.resetService.ResetPassword(c.Request.Context(), appidentity.ResetPasswordInput{
		ResetToken:      req.ResetToken,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.cookie.Set(c, result.Session)
	h.Success(c, result.User)
}
