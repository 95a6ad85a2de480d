package handlers

import (
	"context"
	"net/http"

	"hoofix/models"
	"hoofix/services/dashboard"

	"github.com/gin-gonic/gin"
)

// bookingAction runs a controller action on the booking named in the path.
func (h *DashboardHandler) bookingAction(c *gin.Context, message string, act func(*dashboard.Controller, context.Context, string) error) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if err := act(ctrl, c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

func (h *DashboardHandler) AcceptBookingHandler(c *gin.Context) {
	h.bookingAction(c, "Booking accepted", (*dashboard.Controller).Accept)
}

func (h *DashboardHandler) RejectBookingHandler(c *gin.Context) {
	h.bookingAction(c, "Booking rejected", (*dashboard.Controller).Reject)
}

func (h *DashboardHandler) StartJobHandler(c *gin.Context) {
	h.bookingAction(c, "Job started", (*dashboard.Controller).StartJob)
}

func (h *DashboardHandler) MarkCashPaidHandler(c *gin.Context) {
	h.bookingAction(c, "Marked as paid", (*dashboard.Controller).MarkCashPaid)
}

// CompleteJobHandler takes a multipart form with completion_notes and one or
// more images.
func (h *DashboardHandler) CompleteJobHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	images, err := readUploads(c, "images")
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	notes := c.PostForm("completion_notes")
	if err := ctrl.CompleteJob(c.Request.Context(), c.Param("id"), notes, images); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service completed"})
}

func (h *DashboardHandler) ToggleAvailabilityHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	available, err := ctrl.ToggleAvailability(c.Request.Context())
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": available})
}

func (h *DashboardHandler) AddSkillHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req models.SkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.AddSkill(c.Request.Context(), req); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": ctrl.Store().Skills()})
}

func (h *DashboardHandler) RemoveSkillHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if err := ctrl.RemoveSkill(c.Request.Context(), c.Param("name")); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": ctrl.Store().Skills()})
}

func (h *DashboardHandler) SetDailyRatesHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req struct {
		DailyRates map[string]float64 `json:"daily_rates"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.SetDailyRates(c.Request.Context(), req.DailyRates); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_rates": ctrl.Store().DailyRates()})
}
