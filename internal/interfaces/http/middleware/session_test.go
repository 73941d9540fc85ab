package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sickfits/backend/internal/domain/identity"
	"github.com/sickfits/backend/internal/domain/shared"
	"github.com/sickfits/backend/internal/infrastructure/auth"
	"github.com/sickfits/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserFinder struct {
	users map[uuid.UUID]*identity.User
	err   error
}

func (s *stubUserFinder) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

type sessionFixture struct {
	jwt       *auth.JWTService
	blacklist *auth.InMemoryTokenBlacklist
	cookie    *SessionCookie
	users     *stubUserFinder
	router    *gin.Engine
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &sessionFixture{
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:     "test-secret-key-that-is-long-enough",
			Expiration: time.Hour,
			Issuer:     "sickfits-test",
		}),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		cookie:    NewSessionCookie(config.CookieConfig{Name: "token", SameSite: "lax"}),
		users:     &stubUserFinder{users: map[uuid.UUID]*identity.User{}},
	}

	f.router = gin.New()
	f.router.Use(RequestID())
	f.router.Use(SessionResolver(SessionConfig{JWT: f.jwt, Blacklist: f.blacklist, Cookie: f.cookie}))
	f.router.Use(CurrentUserLoader(f.users, f.cookie, nil))
	f.router.GET("/whoami", func(c *gin.Context) {
		actor := GetActor(c)
		if actor == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, actor.Email)
	})
	return f
}

func (f *sessionFixture) addUser(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("wes@example.com", "Wes", "secret-pass")
	require.NoError(t, err)
	f.users.users[u.ID] = u
	return u
}

func (f *sessionFixture) do(token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func clearedCookie(w *httptest.ResponseRecorder) bool {
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" && c.MaxAge < 0 {
			return true
		}
	}
	return false
}

func TestSessionResolver_NoCookieIsAnonymous(t *testing.T) {
	f := newSessionFixture(t)

	w := f.do("")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
	assert.False(t, clearedCookie(w))
}

func TestSessionResolver_ValidCookieLoadsActor(t *testing.T) {
	f := newSessionFixture(t)
	user := f.addUser(t)
	token, err := f.jwt.Issue(user.ID)
	require.NoError(t, err)

	w := f.do(token.Value)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "wes@example.com", w.Body.String())
}

func TestSessionResolver_InvalidTokenRejected(t *testing.T) {
	f := newSessionFixture(t)

	w := f.do("not-a-jwt")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHENTICATED")
	assert.True(t, clearedCookie(w))
}

func TestSessionResolver_ForeignSignatureRejected(t *testing.T) {
	f := newSessionFixture(t)
	user := f.addUser(t)
	other := auth.NewJWTService(config.JWTConfig{Secret: "another-secret-entirely-different", Expiration: time.Hour, Issuer: "sickfits-test"})
	token, err := other.Issue(user.ID)
	require.NoError(t, err)

	w := f.do(token.Value)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionResolver_RevokedTokenRejected(t *testing.T) {
	f := newSessionFixture(t)
	user := f.addUser(t)
	token, err := f.jwt.Issue(user.ID)
	require.NoError(t, err)
	require.NoError(t, f.blacklist.Revoke(context.Background(), token.ID, time.Hour))

	w := f.do(token.Value)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, clearedCookie(w))
}

func TestCurrentUserLoader_DeletedUserFallsBackToAnonymous(t *testing.T) {
	f := newSessionFixture(t)
	token, err := f.jwt.Issue(uuid.New())
	require.NoError(t, err)

	w := f.do(token.Value)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonymous", w.Body.String())
	assert.True(t, clearedCookie(w))
}

func TestCurrentUserLoader_StoreFailureIs500(t *testing.T) {
	f := newSessionFixture(t)
	user := f.addUser(t)
	token, err := f.jwt.Issue(user.ID)
	require.NoError(t, err)
	f.users.err = errors.New("connection refused")

	w := f.do(token.Value)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestSessionCookie_Set(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cookie := NewSessionCookie(config.CookieConfig{
		Name:     "token",
		Secure:   true,
		SameSite: "none",
		MaxAge:   365 * 24 * time.Hour,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	cookie.Set(c, &auth.SessionToken{Value: "abc", ExpiresAt: time.Now().Add(time.Hour)})

	header := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, "token=abc"))
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "SameSite=None")
	assert.Contains(t, header, "Max-Age=31536000")
}
