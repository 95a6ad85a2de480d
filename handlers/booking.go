package handlers

import (
	"net/http"
	"strconv"

	"hoofix/services/booking"

	"github.com/gin-gonic/gin"
)

// RateBookingHandler submits a 1-5 star rating with an optional review.
func (h *DashboardHandler) RateBookingHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.Rate(c.Request.Context(), c.Param("id"), req.Rating, req.Review); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating submitted"})
}

// StartCheckoutHandler returns the checkout widget configuration for a
// completed, rated and unpaid booking.
func (h *DashboardHandler) StartCheckoutHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	cfg, err := ctrl.StartBookingCheckout(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *DashboardHandler) CompleteCheckoutHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var res booking.CheckoutCompleted
	if err := c.ShouldBindJSON(&res); err != nil {
		badRequest(c, err)
		return
	}
	if err := ctrl.CompleteBookingCheckout(c.Request.Context(), res); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment successful"})
}

// CancelCheckoutHandler records a dismissed widget; nothing reaches the
// backend.
func (h *DashboardHandler) CancelCheckoutHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	ctrl.CancelCheckout(c.Param("checkoutID"))
	c.Status(http.StatusNoContent)
}

func (h *DashboardHandler) PayWithWalletHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if err := ctrl.PayWithWallet(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Paid from wallet"})
}

func (h *DashboardHandler) CompletionHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	comp, err := ctrl.ViewCompletion(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, comp)
}

// TrackProviderHandler returns the tracking page link. lat and lon are the
// customer's coordinates when the browser shared them.
func (h *DashboardHandler) TrackProviderHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	var latPtr, lonPtr *float64
	if latErr == nil && lonErr == nil {
		latPtr, lonPtr = &lat, &lon
	}
	url, err := ctrl.TrackProviderURL(c.Param("id"), latPtr, lonPtr)
	if err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *DashboardHandler) ReloadHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if err := ctrl.Load(c.Request.Context()); err != nil {
		respondError(c, h.Manager, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"version": ctrl.Store().Version()})
}
