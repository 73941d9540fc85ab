package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sickfits/backend/internal/infrastructure/auth"
	"github.com/sickfits/backend/internal/infrastructure/config"
)

// SessionCookie writes and clears the httpOnly session cookie
type SessionCookie struct {
	cfg config.CookieConfig
}

// NewSessionCookie creates a SessionCookie from config
func NewSessionCookie(cfg config.CookieConfig) *SessionCookie {
	if cfg.Name == "" {
		cfg.Name = "token"
	}
	if cfg.Path == "" {
		cfg.Path = "/"
	}
	return &SessionCookie{cfg: cfg}
}

// Name returns the cookie name
func (s *SessionCookie) Name() string {
	return s.cfg.Name
}

// Set stores the session token. The cookie outlives the JWT only when
// cookie.max_age is configured longer than jwt.expiration; the token's own
// expiry still applies.
func (s *SessionCookie) Set(c *gin.Context, token *auth.SessionToken) {
	maxAge := s.cfg.MaxAge
	if maxAge <= 0 {
		maxAge = time.Until(token.ExpiresAt)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    token.Value,
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: sameSite(s.cfg.SameSite),
	})
}

// Clear expires the session cookie on the client
func (s *SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    "",
		Path:     s.cfg.Path,
		Domain:   s.cfg.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   s.cfg.Secure,
		HttpOnly: true,
		SameSite: sameSite(s.cfg.SameSite),
	})
}

// Read returns the raw token from the request, or "" when absent
func (s *SessionCookie) Read(c *gin.Context) string {
	value, err := c.Cookie(s.cfg.Name)
	if err != nil {
		return ""
	}
	return value
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
