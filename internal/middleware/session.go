// internal/middleware/session.go
package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/fortexuz/fortex-backend/internal/utils"
)

const SessionHeader = "X-Session-ID"

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,128}$`)

// SessionMiddleware reads the storefront session from X-Session-ID. Missing
// or malformed values are replaced with a fresh id, which is echoed back so
// the client can keep it.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if !sessionIDPattern.MatchString(sessionID) {
			sessionID = utils.NewID("sess")
		}

		c.Set("session_id", sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}
