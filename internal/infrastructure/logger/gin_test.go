package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(l *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), "req-42"))
		c.Next()
	})
	r.Use(AccessLog(l, "/health"), Recovery(l))
	r.GET("/items/:id", func(c *gin.Context) {
		FromContext(c.Request.Context()).Info("inside handler")
		c.Status(http.StatusOK)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestAccessLog(t *testing.T) {
	t.Run("logs completed request with route and request id", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		r := newTestRouter(zap.New(core))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/abc", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		inside := recorded.FilterMessage("inside handler").All()
		require.Len(t, inside, 1)
		assert.Equal(t, "req-42", inside[0].ContextMap()["request_id"])

		done := recorded.FilterMessage("request completed").All()
		require.Len(t, done, 1)
		assert.Equal(t, zapcore.InfoLevel, done[0].Level)
		assert.Equal(t, "/items/:id", done[0].ContextMap()["route"])
	})

	t.Run("client errors log at warn", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		r := newTestRouter(zap.New(core))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

		done := recorded.FilterMessage("request completed").All()
		require.Len(t, done, 1)
		assert.Equal(t, zapcore.WarnLevel, done[0].Level)
	})

	t.Run("skipped paths are not logged", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		r := newTestRouter(zap.New(core))

		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, 0, recorded.Len())
	})
}

func TestRecovery(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	r := newTestRouter(zap.New(core))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
	assert.Equal(t, 1, recorded.FilterMessage("panic recovered").Len())
}
