package routes

import (
	"time"

	"hoofix/handlers"
	"hoofix/middleware"
	"hoofix/services/dashboard"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes registers login and logout.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/session")
	{
		api.POST("", hb.LoginHandler)
		api.POST("/logout", hb.LogoutHandler)

		api.GET("", middleware.RequireSession(hb.Manager), hb.SessionHandler)
	}
}

// RegisterDashboardRoutes registers the state, fragments and notifications
// shared by both dashboards.
func RegisterDashboardRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	d := hb.Dashboard
	api := r.Group("/dashboard")
	{
		api.Use(middleware.RequireSession(hb.Manager))
		api.GET("", d.GetDashboardHandler)
		api.POST("/reload", d.ReloadHandler)
		api.GET("/fragments/bookings", d.BookingsFragmentHandler)
		api.GET("/fragments/notifications", d.NotificationsFragmentHandler)
		api.DELETE("/notifications/:id", d.DismissNotificationHandler)
		api.GET("/bookings/:id/completion", d.CompletionHandler)
	}
}

// RegisterProviderRoutes registers provider dashboard actions.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	d := hb.Dashboard
	api := r.Group("/dashboard/provider")
	{
		api.Use(middleware.RequireSession(hb.Manager), middleware.RequirePage(dashboard.PageProvider))
		api.GET("/fragments/incoming", d.IncomingFragmentHandler)
		api.PUT("/view", d.SetViewHandler)
		api.POST("/bookings/:id/accept", d.AcceptBookingHandler)
		api.POST("/bookings/:id/reject", d.RejectBookingHandler)
		api.POST("/bookings/:id/start", d.StartJobHandler)
		api.POST("/bookings/:id/complete", d.CompleteJobHandler)
		api.POST("/bookings/:id/mark-cash", d.MarkCashPaidHandler)
		api.POST("/availability/toggle", d.ToggleAvailabilityHandler)
		api.POST("/skills", d.AddSkillHandler)
		api.DELETE("/skills/:name", d.RemoveSkillHandler)
		api.PUT("/daily-rates", d.SetDailyRatesHandler)
		api.GET("/services", d.ServiceCatalogHandler)
		api.GET("/service-requests", d.ServiceRequestsHandler)
		api.GET("/chat/:id", d.ChatThreadHandler)
		api.POST("/chat/:id", d.SendChatHandler)
	}
}

// RegisterProfileRoutes registers the profile page.
func RegisterProfileRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	d := hb.Dashboard
	api := r.Group("/profile")
	{
		api.Use(middleware.RequireSession(hb.Manager))
		api.GET("", d.GetProfileHandler)
		api.GET("/fragments/addresses", d.AddressesFragmentHandler)
		api.POST("/addresses", d.AddAddressHandler)
		api.DELETE("/addresses/:uid", d.DeleteAddressHandler)
		api.POST("/addresses/:uid/default", d.SetDefaultAddressHandler)
		api.POST("/update", d.UpdateProfileHandler)
		api.POST("/password", d.ChangePasswordHandler)
		api.POST("/avatar", d.UploadAvatarHandler)
		api.GET("/preferences", d.GetPreferencesHandler)
		api.POST("/preferences", d.SavePreferencesHandler)
		api.POST("/referral", d.ApplyReferralHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-View-Version"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterSessionRoutes(r, hb)
	RegisterDashboardRoutes(r, hb)
	RegisterCustomerRoutes(r, hb)
	RegisterProviderRoutes(r, hb)
	RegisterProfileRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
