package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceCatalogHandler lists the services a provider can add as skills.
func (h *DashboardHandler) ServiceCatalogHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	services, err := ctrl.ServiceCatalog(c.Request.Context())
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

func (h *DashboardHandler) ServiceRequestsHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if c.Query("reload") == "true" {
		if err := ctrl.ReloadServiceRequests(c.Request.Context()); err != nil {
			respondError(c, h.Manager, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"service_requests": ctrl.Store().ServiceRequests()})
}

func (h *DashboardHandler) ChatThreadHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	msgs, err := ctrl.ChatThread(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *DashboardHandler) SendChatHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.SendChat(c.Request.Context(), c.Param("id"), req.Message); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.Status(http.StatusNoContent)
}
