package routes

import (
	"hoofix/handlers"
	"hoofix/middleware"
	"hoofix/services/dashboard"

	"github.com/gin-gonic/gin"
)

// RegisterCustomerRoutes registers booking payment, rating and wallet
// endpoints of the customer dashboard.
func RegisterCustomerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	d := hb.Dashboard
	customer := r.Group("/dashboard/customer")
	{
		customer.Use(middleware.RequireSession(hb.Manager), middleware.RequirePage(dashboard.PageCustomer))
		customer.POST("/bookings/:id/rate", d.RateBookingHandler)
		customer.POST("/bookings/:id/checkout", d.StartCheckoutHandler)
		customer.POST("/checkout/complete", d.CompleteCheckoutHandler)
		customer.POST("/checkout/:checkoutID/cancel", d.CancelCheckoutHandler)
		customer.POST("/bookings/:id/pay-wallet", d.PayWithWalletHandler)
		customer.GET("/bookings/:id/track", d.TrackProviderHandler)
		customer.GET("/fragments/transactions", d.TransactionsFragmentHandler)
		customer.POST("/wallet/topup", d.StartTopUpHandler)
		customer.POST("/wallet/topup/complete", d.CompleteTopUpHandler)
	}
}
