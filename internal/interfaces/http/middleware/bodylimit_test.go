package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sickfits/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyLimitRouter(limit int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), BodyLimit(limit))
	router.POST("/signin", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.String(http.StatusRequestEntityTooLarge, "read cut at %d", tooLarge.Limit)
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	})
	router.GET("/items", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestBodyLimit(t *testing.T) {
	router := bodyLimitRouter(64)

	t.Run("passes a credentials payload under the cap", func(t *testing.T) {
		body := `{"email":"wes@sickfits.local","password":"dogs"}`
		req := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "48", w.Body.String())
	})

	t.Run("refuses a declared length over the cap with the error envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(strings.Repeat("x", 65)))
		req.Header.Set(RequestIDHeader, "req-413")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
		assert.Equal(t, BodyTooLargeMessage, resp.Error.Message)
		assert.Equal(t, "req-413", resp.Error.RequestID)
	})

	t.Run("cuts a body of unknown length while reading", func(t *testing.T) {
		body := io.MultiReader(strings.NewReader(strings.Repeat("y", 50)), strings.NewReader(strings.Repeat("z", 50)))
		req := httptest.NewRequest(http.MethodPost, "/signin", body)
		require.Equal(t, int64(-1), req.ContentLength)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "read cut at 64", w.Body.String())
	})

	t.Run("ignores bodyless requests", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/items", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
