package handlers

import (
	"net/http"
	"time"

	"hoofix/models"
	"hoofix/services/dashboard"
	"hoofix/services/render"
	"hoofix/services/viewmodel"

	"github.com/gin-gonic/gin"
)

// earningsDays is the length of the provider earnings chart.
const earningsDays = 7

// DashboardHandler exposes the session controller's state and actions.
type DashboardHandler struct {
	Manager *dashboard.Manager
	now     func() time.Time
}

func NewDashboardHandler(m *dashboard.Manager) *DashboardHandler {
	return &DashboardHandler{Manager: m, now: time.Now}
}

type dashboardView struct {
	Identity     models.Identity         `json:"identity"`
	Page         dashboard.Page          `json:"page"`
	Version      uint64                  `json:"version"`
	Realtime     bool                    `json:"realtime"`
	Stats        interface{}             `json:"stats"`
	Wallet       *models.WalletSummary   `json:"wallet,omitempty"`
	Availability *bool                   `json:"availability,omitempty"`
	Skills       []string                `json:"skills,omitempty"`
	DailyRates   map[string]float64      `json:"dailyRates,omitempty"`
	Earnings     []viewmodel.DayEarnings `json:"earnings,omitempty"`
	Filter       render.Filter           `json:"filter"`
	Rows         []render.Row            `json:"rows"`
}

// GetDashboardHandler returns the page state. With reload=true the page
// data is fetched from the backend first.
func (h *DashboardHandler) GetDashboardHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if c.Query("reload") == "true" {
		if err := ctrl.Load(c.Request.Context()); err != nil {
			respondError(c, h.Manager, err)
			return
		}
	}

	store := ctrl.Store()
	view := dashboardView{
		Identity: ctrl.Identity(),
		Page:     ctrl.Page(),
		Version:  store.Version(),
		Realtime: h.Manager.RealtimeConnected(),
		Filter:   ctrl.Filter(),
		Rows:     ctrl.Rows(),
	}
	if ctrl.Page() == dashboard.PageProvider {
		available := store.Availability()
		view.Stats = store.ProviderStats()
		view.Availability = &available
		view.Skills = store.Skills()
		view.DailyRates = store.DailyRates()
		view.Earnings = viewmodel.DailyEarnings(store.Bookings(), h.now(), earningsDays)
	} else {
		view.Stats = store.Stats()
		if w, ok := store.Wallet(); ok {
			view.Wallet = &w
		}
	}
	c.JSON(http.StatusOK, view)
}

// BookingsFragmentHandler renders the booking list under the requested
// filter, which becomes the session's active filter.
func (h *DashboardHandler) BookingsFragmentHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if f, set := c.GetQuery("filter"); set {
		ctrl.SetFilter(render.ParseFilter(f))
	}
	html, err := render.BookingList(ctrl.Rows())
	renderFragment(c, ctrl, html, err)
}

func (h *DashboardHandler) IncomingFragmentHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	html, err := render.IncomingList(ctrl.Store().Incoming())
	renderFragment(c, ctrl, html, err)
}

func (h *DashboardHandler) TransactionsFragmentHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	w, _ := ctrl.Store().Wallet()
	html, err := render.Transactions(w.Transactions)
	renderFragment(c, ctrl, html, err)
}

func (h *DashboardHandler) NotificationsFragmentHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	html, err := render.Notifications(ctrl.Notifier().Active())
	renderFragment(c, ctrl, html, err)
}

func (h *DashboardHandler) DismissNotificationHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	if !ctrl.Notifier().Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// SetViewHandler switches the provider page between jobs and open service
// requests.
func (h *DashboardHandler) SetViewHandler(c *gin.Context) {
	ctrl, ok := controllerFrom(c)
	if !ok {
		return
	}
	var req struct {
		View string `json:"view" binding:"required,oneof=jobs service-requests"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctrl.SetView(req.View)
	if req.View == dashboard.ViewServiceRequests {
		if err := ctrl.ReloadServiceRequests(c.Request.Context()); err != nil {
			respondError(c, h.Manager, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"view": ctrl.View()})
}
