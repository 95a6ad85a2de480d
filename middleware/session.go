package middleware

import (
	"net/http"

	"hoofix/services/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireSession restores the open dashboard session and puts its controller
// in the context. Without a usable credential the request is answered with
// the login redirect.
func RequireSession(m *dashboard.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, err := m.Current(c.Request.Context())
		if err != nil {
			target, ok := m.Latch().Take()
			if !ok {
				target = m.LoginPath()
			}
			if l, exists := c.Get("logger"); exists {
				if logger, ok := l.(*zap.Logger); ok {
					logger.Info("no session", zap.Error(err))
				}
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message":  "Please log in",
				"redirect": target,
			})
			return
		}
		c.Set("controller", ctrl)
		c.Set("identityID", ctrl.Identity().ID)
		c.Next()
	}
}

// RequirePage rejects requests whose session is not on the given page.
func RequirePage(page dashboard.Page) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, _ := c.Get("controller")
		ctrl, ok := raw.(*dashboard.Controller)
		if !ok || ctrl.Page() != page {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "This action is not available on your dashboard",
			})
			return
		}
		c.Next()
	}
}
