package handlers

import (
	"skillhive/internal/models"

	"github.com/gin-gonic/gin"
)

// render wraps c.HTML and pushes the current user into every template.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if u, ok := currentUser(c); ok {
		data["CurrentUser"] = u
		data["CurrentUserName"] = u.DisplayName
		data["CurrentUserRole"] = u.Role
	}

	c.HTML(status, tmpl, data)
}

func currentUser(c *gin.Context) (*models.User, bool) {
	uVal, ok := c.Get("CurrentUser")
	if !ok {
		return nil, false
	}
	switch u := uVal.(type) {
	case models.User:
		return &u, true
	case *models.User:
		return u, true
	}
	return nil, false
}
