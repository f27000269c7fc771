package router

import (
	"strings"

	"salespulse/internal/auth"
	"salespulse/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BearerAuth parses the Authorization header and, when the token is valid
// and unexpired, stores the session in the context. Expired or malformed
// tokens are discarded silently; the handler decides whether an anonymous
// request is acceptable (dev mode admits them).
func BearerAuth(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if session := auth.ParseToken(config.Conf.Auth.JWTSecret, token); session != nil {
				c.Set("session", session)
			} else {
				log.Debug("Discarded invalid or expired bearer token",
					zap.String("path", c.Request.URL.Path))
			}
		}
		c.Next()
	}
}
