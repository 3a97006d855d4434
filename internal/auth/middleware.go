package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// LoginPath is where unauthenticated page-style requests are sent. The login
// page itself is served by the frontend, not this API.
const LoginPath = "/login"

// RequireAuth gates protected routes behind a valid session.
//
// API-style requests (under /api/ or JSON-accepting) are denied with a
// structured 401 body; page-style requests are redirected to the login page.
func RequireAuth(sm *SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sm.IsAuthenticated(c.Request) {
			c.Next()
			return
		}

		if isAPIRequest(c) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "authentication required",
			})
			return
		}

		c.Redirect(http.StatusFound, LoginPath+"?next="+c.Request.URL.Path)
		c.Abort()
	}
}

// isAPIRequest determines if this is an API request vs web browser request.
func isAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}

	accept := c.GetHeader("Accept")
	return strings.Contains(accept, "application/json")
}
