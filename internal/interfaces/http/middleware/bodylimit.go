package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sickfits/backend/internal/interfaces/http/dto"
)

// BodyTooLargeMessage is shared with handlers that hit the limit mid-read.
const BodyTooLargeMessage = "Request body exceeds maximum allowed size"

// BodyLimit caps request bodies at maxBytes. Declared lengths over the cap are
// refused up front; chunked bodies fail with *http.MaxBytesError when read.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse(dto.ErrCodeRequestTooLarge, BodyTooLargeMessage, GetRequestID(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
