package middleware

import (
	"net/http"

	"skillhive/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)
		if sess.Get("user_id") == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole gates on the user row loaded by InjectUser rather than a role
// slot stamped into the session at login. Role changes and deactivation take
// effect on the next request, not the next login.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := contextUser(c)
		if !ok || !user.IsActive {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			c.String(http.StatusForbidden, "access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

func contextUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("CurrentUser")
	if !ok {
		return nil, false
	}
	switch u := v.(type) {
	case models.User:
		return &u, true
	case *models.User:
		return u, true
	}
	return nil, false
}
