package handlers

import (
	"net/http"

	"hoofix/services/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Manager *dashboard.Manager
}

func NewAuthHandler(m *dashboard.Manager) *AuthHandler {
	return &AuthHandler{Manager: m}
}

// LoginHandler opens a session for a credential issued by the backend.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctrl, err := h.Manager.Login(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	getLogger(c).Info("session opened", zap.String("identity", ctrl.Identity().ID))
	c.JSON(http.StatusOK, gin.H{
		"identity": ctrl.Identity(),
		"initials": ctrl.Identity().Initials(),
		"page":     ctrl.Page(),
	})
}

// LogoutHandler always succeeds: the local credential goes whatever the
// backend answers.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	h.Manager.Logout(c.Request.Context())
	h.Manager.Latch().Take()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": h.Manager.LoginPath()})
}

func (h *AuthHandler) SessionHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"identity": ctrl.Identity(),
		"initials": ctrl.Identity().Initials(),
		"page":     ctrl.Page(),
		"realtime": h.Manager.RealtimeConnected(),
	})
}
