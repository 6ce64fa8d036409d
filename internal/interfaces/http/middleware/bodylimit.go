package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fueltire/receipts/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			abortWithError(c, http.StatusRequestEntityTooLarge, dto.ErrCodeTooLarge,
				"Request body exceeds maximum allowed size")
			return
		}

		// chunked bodies are cut off by the reader instead
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
