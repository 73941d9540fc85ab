package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/auth"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"github.com/sickfits/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// SessionClaimsKey is the gin context key holding *auth.SessionClaims
const SessionClaimsKey = "session_claims"

// SessionConfig holds the collaborators of the session middleware
type SessionConfig struct {
	JWT       *auth.JWTService
	Blacklist auth.TokenBlacklist
	Cookie    *SessionCookie
	Logger    *zap.Logger
}

// SessionResolver turns the session cookie into verified claims.
//
// A request without the cookie stays anonymous. A cookie carrying a token
// that is malformed, expired or revoked ends the request with 401 and
// clears the cookie so the browser stops sending it.
func SessionResolver(cfg SessionConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		raw := cfg.Cookie.Read(c)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := cfg.JWT.Parse(raw)
		if err != nil {
			rejectSession(c, cfg.Cookie, "Your session is invalid or has expired")
			return
		}

		if revoked := isRevoked(c.Request.Context(), cfg.Blacklist, claims, log); revoked {
			rejectSession(c, cfg.Cookie, "Your session has been revoked")
			return
		}

		c.Set(SessionClaimsKey, claims)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// isRevoked checks the jti and the per-user cutoff. Blacklist lookups fail
// open: a store outage must not sign every user out.
func isRevoked(ctx context.Context, blacklist auth.TokenBlacklist, claims *auth.SessionClaims, log *zap.Logger) bool {
	if blacklist == nil {
		return false
	}

	if claims.ID != "" {
		revoked, err := blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.For(ctx, log).Warn("token blacklist lookup failed", zap.Error(err))
		} else if revoked {
			return true
		}
	}

	revoked, err := blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAtTime())
	if err != nil {
		logger.For(ctx, log).Warn("user revocation lookup failed", zap.Error(err))
		return false
	}
	return revoked
}

func rejectSession(c *gin.Context, cookie *SessionCookie, message string) {
	cookie.Clear(c)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthenticated, message, GetRequestID(c)))
}

// GetSessionClaims returns the verified claims, or nil for anonymous requests
func GetSessionClaims(c *gin.Context) *auth.SessionClaims {
	v, ok := c.Get(SessionClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.SessionClaims)
	return claims
}

// UserFinder loads users by id
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

// CurrentUserLoader resolves the claims left by SessionResolver into the
// request actor. A user deleted since the token was issued downgrades the
// request to anonymous and clears the cookie.
func CurrentUserLoader(users UserFinder, cookie *SessionCookie, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		claims := GetSessionClaims(c)
		if claims == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		userID, err := claims.UserUUID()
		if err != nil {
			rejectSession(c, cookie, "Your session is invalid or has expired")
			return
		}

		user, err := users.FindByID(ctx, userID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			logger.For(ctx, log).Info("session user no longer exists", zap.String("user_id", claims.UserID))
			cookie.Clear(c)
			c.Set(SessionClaimsKey, nil)
			c.Next()
			return
		case err != nil:
			logger.For(ctx, log).Error("failed to load session user", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred", GetRequestID(c)))
			return
		}

		c.Request = c.Request.WithContext(identity.WithActor(ctx, user.Actor()))
		c.Next()
	}
}

// GetActor returns the request actor, or nil for anonymous requests
func GetActor(c *gin.Context) *identity.Actor {
	return identity.ActorFromContext(c.Request.Context())
}
