package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards the manual trigger: the shared secret arrives either as
// the "key" query parameter or in the X-API-Key header.
func APIKeyAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.Query("key")
		if provided == "" {
			provided = c.GetHeader("X-API-Key")
		}

		if !secretsEqual(provided, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or missing API key",
			})
			return
		}
		c.Next()
	}
}

// BearerAuth guards the scheduled trigger with the cron bearer secret.
func BearerAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		provided := strings.TrimPrefix(header, "Bearer ")
		if provided == header {
			provided = ""
		}

		if !secretsEqual(provided, secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "invalid or missing bearer token",
			})
			return
		}
		c.Next()
	}
}

func secretsEqual(provided, secret string) bool {
	if secret == "" || provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) == 1
}
