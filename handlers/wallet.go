package handlers

import (
	"net/http"

	"hoofix/services/booking"

	"github.com/gin-gonic/gin"
)

func (h *DashboardHandler) StartTopUpHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cfg, err := ctrl.StartTopUp(c.Request.Context(), req.Amount)
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *DashboardHandler) CompleteTopUpHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var res booking.CheckoutCompleted
	if err := c.ShouldBindJSON(&res); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.CompleteTopUp(c.Request.Context(), res); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": ctrl.Store().WalletBalance()})
}

func (h *DashboardHandler) ApplyReferralHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req struct {
		Code string `json:"referral_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.ApplyReferral(c.Request.Context(), req.Code); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Referral code applied"})
}
