package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwikya/authd/internal/application"
	"github.com/mwikya/authd/pkg/helpers"
	"github.com/mwikya/authd/pkg/response"
)

// SessionAuth resolves the session cookie to a user record. On success it
// sets userID and userEmail in the Gin context; otherwise the request is
// rejected with a generic 401.
func SessionAuth(auth *application.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing session", nil)
			return
		}
		u, err := auth.ResolveSession(c.Request.Context(), token)
		if err != nil {
			response.AbortError(c, http.StatusInternalServerError, "session lookup failed", nil)
			return
		}
		if u == nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid session", nil)
			return
		}
		c.Set("userID", u.ID)
		c.Set("userEmail", u.Email)
		c.Next()
	}
}
