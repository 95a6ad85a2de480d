package handlers

import (
	"net/http"

	"hoofix/services/dashboard"
	"hoofix/utils"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Manager *dashboard.Manager
}

func NewHealthHandler(m *dashboard.Manager) *HealthHandler {
	return &HealthHandler{Manager: m}
}

// HealthHandler reports the last probe of every dependency plus the realtime
// channel of the open session.
func (h *HealthHandler) HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    http.StatusText(code),
		"services":  status.Services,
		"checkedAt": status.CheckedAt,
		"realtime":  h.Manager.RealtimeConnected(),
		"message":   "Hi, I'm Hoofix",
	})
}
