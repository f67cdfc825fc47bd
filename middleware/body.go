package middleware

import (
	"net/http"
	"strings"

	"streamhub/account-api/pkg/respond"

	"github.com/gin-gonic/gin"
)

func BodySizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Fast reject for legit requests
		if c.Request.ContentLength > maxBytes {
			respond.Error(c, http.StatusRequestEntityTooLarge, "request body size exceeds limit")
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()

		if c.Errors.Last() != nil {
			if strings.Contains(c.Errors.Last().Error(), "http: request body too large") {
				respond.Error(c, http.StatusRequestEntityTooLarge, "request body size exceeds limit")
			}
		}
	}
}
