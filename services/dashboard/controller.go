package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"hoofix/models"
	"hoofix/services/api"
	"hoofix/services/booking"
	"hoofix/services/notification"
	"hoofix/services/render"
	"hoofix/services/viewmodel"

	"go.uber.org/zap"
)

type Page string

const (
	PageCustomer Page = "customer"
	PageProvider Page = "provider"
	PageProfile  Page = "profile"
)

// View names a secondary list on the provider page.
const (
	ViewJobs            = "jobs"
	ViewServiceRequests = "service-requests"
)

// Navigator moves the user to another page.
type Navigator interface {
	Redirect(path string)
}

// Options configures a Controller.
type Options struct {
	LoginPath    string
	Currency     string
	CheckoutName string
	Location     *time.Location
}

func (o Options) withDefaults() Options {
	if o.LoginPath == "" {
		o.LoginPath = "/login"
	}
	if o.Currency == "" {
		o.Currency = "INR"
	}
	if o.CheckoutName == "" {
		o.CheckoutName = "Hoofix"
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Controller owns the view-model of one logged-in session and performs every
// user action against the backend. Actions report their own failures to the
// notifier and return the error for the caller's response.
type Controller struct {
	identity  models.Identity
	page      Page
	api       *api.Client
	store     *viewmodel.Store
	notifier  notification.NotificationService
	checkouts *booking.Checkouts
	nav       Navigator
	opts      Options
	logger    *zap.Logger

	// bg bounds reloads triggered by realtime events.
	bg context.Context

	unauthorized sync.Once
	loggedOut    chan struct{}

	mu     sync.RWMutex
	filter render.Filter
	view   string
}

func NewController(
	bg context.Context,
	identity models.Identity,
	client *api.Client,
	store *viewmodel.Store,
	notifier notification.NotificationService,
	nav Navigator,
	opts Options,
	logger *zap.Logger,
) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	page := PageCustomer
	if identity.IsProvider() {
		page = PageProvider
	}
	return &Controller{
		identity:  identity,
		page:      page,
		api:       client,
		store:     store,
		notifier:  notifier,
		checkouts: booking.NewCheckouts(logger),
		nav:       nav,
		opts:      opts.withDefaults(),
		logger:    logger.With(zap.String("identity", identity.ID), zap.String("page", string(page))),
		bg:        bg,
		loggedOut: make(chan struct{}),
		filter:    render.FilterAll,
		view:      ViewJobs,
	}
}

func (c *Controller) Identity() models.Identity { return c.identity }
func (c *Controller) Page() Page { return c.page }
func (c *Controller) Store() *viewmodel.Store { return c.store }
func (c *Controller) Notifier() notification.NotificationService { return c.notifier }

// Done is closed once the session has ended through logout or an
// unauthorized response.
func (c *Controller) Done() <-chan struct{} {
	return c.loggedOut
}

func (c *Controller) viewer() booking.Viewer {
	if c.page == PageProvider {
		return booking.ViewerProvider
	}
	return booking.ViewerCustomer
}

func (c *Controller) SetFilter(f render.Filter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

func (c *Controller) Filter() render.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

func (c *Controller) SetView(view string) {
	c.mu.Lock()
	c.view = view
	c.mu.Unlock()
}

func (c *Controller) View() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Rows projects the current bookings through the active filter.
func (c *Controller) Rows() []render.Row {
	return render.Rows(c.store.Bookings(), c.Filter(), render.Options{
		Viewer:        c.viewer(),
		WalletBalance: c.store.WalletBalance(),
		Location:      c.opts.Location,
	})
}

func (c *Controller) notify(level models.NotificationLevel, msg string) {
	if c.notifier != nil {
		c.notifier.Notify(level, msg)
	}
}

// handle applies the failure policy shared by every action:
//   - Unauthorized ends the session and redirects once;
//   - NotFound on a listing is an empty collection, reported as nil;
//   - anything else becomes an error notification.
func (c *Controller) handle(err error, failure string, listing bool) error {
	if err == nil {
		return nil
	}
	switch api.KindOf(err) {
	case api.Unauthorized:
		c.endSession("unauthorized")
		return err
	case api.NotFound:
		if listing {
			c.logger.Debug("listing not found, treating as empty", zap.Error(err))
			return nil
		}
	case api.InvalidInput:
		c.notify(models.LevelWarning, validationMessage(err, failure))
		return err
	}
	c.logger.Warn(failure, zap.Error(err))
	c.notify(models.LevelError, failure)
	return err
}

func validationMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// endSession clears the credential and leaves for the login page. Only the
// first caller has any effect.
func (c *Controller) endSession(reason string) {
	c.unauthorized.Do(func() {
		c.logger.Info("ending session", zap.String("reason", reason))
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.api.Credentials().Clear(ctx); err != nil {
			c.logger.Warn("failed to clear credential", zap.Error(err))
		}
		c.store.Reset()
		close(c.loggedOut)
		if c.nav != nil {
			c.nav.Redirect(c.opts.LoginPath)
		}
	})
}

// reloadAsync runs fn outside the realtime read loop, bounded by the
// controller's background context.
func (c *Controller) reloadAsync(name string, fn func(ctx context.Context) error) {
	go func() {
		select {
		case <-c.loggedOut:
			return
		default:
		}
		if err := fn(c.bg); err != nil {
			c.logger.Debug("background reload failed", zap.String("reload", name), zap.Error(err))
		}
	}()
}

// Logout ends the session. The server call is best effort: the local
// credential is cleared and the user redirected whatever it returns.
func (c *Controller) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.logger.Info("server logout failed", zap.Error(err))
	}
	c.endSession("logout")
}

// Load performs the initial fetch for the controller's page.
func (c *Controller) Load(ctx context.Context) error {
	if c.page == PageProvider {
		return c.LoadProvider(ctx)
	}
	return c.LoadCustomer(ctx)
}
