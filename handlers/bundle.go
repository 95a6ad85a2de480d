package handlers

import (
	"hoofix/services/dashboard"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the companion server's handlers for route
// registration.
type HandlerBundle struct {
	Manager *dashboard.Manager

	// Session endpoints
	LoginHandler   gin.HandlerFunc
	LogoutHandler  gin.HandlerFunc
	SessionHandler gin.HandlerFunc

	Dashboard *DashboardHandler
	Health    *HealthHandler
}

// NewHandlerBundle wires every handler against the session manager.
func NewHandlerBundle(m *dashboard.Manager, health *HealthHandler) *HandlerBundle {
	auth := NewAuthHandler(m)
	return &HandlerBundle{
		Manager:        m,
		LoginHandler:   auth.LoginHandler,
		LogoutHandler:  auth.LogoutHandler,
		SessionHandler: auth.SessionHandler,
		Dashboard:      NewDashboardHandler(m),
		Health:         health,
	}
}
