package dashboard

import (
	"context"

	"hoofix/models"
	"hoofix/services/api"
	"hoofix/services/booking"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// chatPreviewLimit bounds concurrent chat fetches when building the inbox.
const chatPreviewLimit = 4

// LoadProvider fetches the provider profile and jobs, then builds the inbox.
func (c *Controller) LoadProvider(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.ReloadProfile(ctx) })
	g.Go(func() error { return c.ReloadProviderBookings(ctx) })
	return g.Wait()
}

// ReloadProfile refreshes the profile, which carries skills, daily rates and
// availability for providers.
func (c *Controller) ReloadProfile(ctx context.Context) error {
	var (
		p   models.Profile
		err error
	)
	if c.page == PageProvider {
		p, err = c.api.Me(ctx)
	} else {
		p, err = c.api.Profile(ctx)
	}
	if err != nil {
		return c.handle(err, "Error loading profile", false)
	}
	c.store.SetProfile(p)
	return nil
}

// ReloadProviderBookings refreshes jobs and rebuilds the incoming requests
// from them.
func (c *Controller) ReloadProviderBookings(ctx context.Context) error {
	if err := c.ReloadBookings(ctx); err != nil {
		return err
	}
	incoming, err := c.buildIncoming(ctx, c.store.Bookings())
	if err != nil {
		return c.handle(err, "Error loading chat messages", false)
	}
	c.store.ReplaceIncoming(incoming)
	return nil
}

// buildIncoming lists pending bookings followed by the latest chat message of
// every open job. Chats that fail to load are skipped; only an unauthorized
// response aborts.
func (c *Controller) buildIncoming(ctx context.Context, bookings []models.Booking) ([]models.IncomingRequest, error) {
	var out []models.IncomingRequest
	var open []models.Booking
	for _, b := range bookings {
		switch b.Status {
		case models.StatusPending:
			out = append(out, models.IncomingRequest{Kind: models.IncomingBooking, Booking: b})
		case models.StatusAccepted, models.StatusInProgress:
			open = append(open, b)
		}
	}

	// Each goroutine writes only its own index.
	previews := make([]*models.ChatMessage, len(open))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(chatPreviewLimit)
	for i, b := range open {
		g.Go(func() error {
			msgs, err := c.api.ChatMessages(gctx, b.ID)
			if err != nil {
				if api.IsUnauthorized(err) {
					return err
				}
				c.logger.Debug("skipping chat preview", zap.String("booking", b.ID), zap.Error(err))
				return nil
			}
			if len(msgs) == 0 {
				return nil
			}
			last := msgs[len(msgs)-1]
			previews[i] = &last
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, b := range open {
		if previews[i] != nil {
			out = append(out, models.IncomingRequest{Kind: models.IncomingChat, Booking: b, LastMessage: previews[i]})
		}
	}
	return out, nil
}

func (c *Controller) Accept(ctx context.Context, bookingID string) error {
	if err := c.api.AcceptBooking(ctx, bookingID); err != nil {
		return c.handle(err, "Failed to accept booking", false)
	}
	c.store.RemoveIncoming(bookingID)
	c.notify(models.LevelSuccess, "Booking accepted")
	return c.ReloadProviderBookings(ctx)
}

func (c *Controller) Reject(ctx context.Context, bookingID string) error {
	if err := c.api.RejectBooking(ctx, bookingID); err != nil {
		return c.handle(err, "Failed to reject booking", false)
	}
	c.store.RemoveIncoming(bookingID)
	c.notify(models.LevelInfo, "Booking rejected")
	return c.ReloadProviderBookings(ctx)
}

// StartJob asks the backend to move an accepted job to In Progress. The new
// status shows only once the backend reports it.
func (c *Controller) StartJob(ctx context.Context, bookingID string) error {
	if err := c.api.UpdateBookingStatus(ctx, bookingID, models.StatusInProgress); err != nil {
		return c.handle(err, "Failed to start job", false)
	}
	c.notify(models.LevelSuccess, "Job started")
	return c.ReloadProviderBookings(ctx)
}

// CompleteJob validates the completion form and uploads it.
func (c *Controller) CompleteJob(ctx context.Context, bookingID, notes string, images []models.FileUpload) error {
	if err := booking.ValidateCompletion(notes, images); err != nil {
		c.notify(models.LevelWarning, "Please fill in all required fields (Completion Notes and at least one image)")
		return err
	}
	if err := c.api.UploadCompletion(ctx, bookingID, notes, images); err != nil {
		return c.handle(err, "Failed to complete service", false)
	}
	c.notify(models.LevelSuccess, "Service completed and uploaded!")
	return c.ReloadProviderBookings(ctx)
}

// ToggleAvailability flips availability; the local flag changes only after
// the backend accepts.
func (c *Controller) ToggleAvailability(ctx context.Context) (bool, error) {
	next := !c.store.Availability()
	if err := c.api.SetAvailability(ctx, next); err != nil {
		return !next, c.handle(err, "Failed to update availability", false)
	}
	c.store.SetAvailability(next)
	if next {
		c.notify(models.LevelSuccess, "You are now available for new jobs")
	} else {
		c.notify(models.LevelInfo, "You are now unavailable")
	}
	return next, nil
}

func (c *Controller) AddSkill(ctx context.Context, req models.SkillRequest) error {
	if err := c.api.AddSkill(ctx, req); err != nil {
		return c.handle(err, "Failed to add service", false)
	}
	c.notify(models.LevelSuccess, "Service added")
	return c.ReloadProfile(ctx)
}

func (c *Controller) RemoveSkill(ctx context.Context, serviceName string) error {
	if err := c.api.RemoveSkill(ctx, serviceName); err != nil {
		return c.handle(err, "Failed to remove service", false)
	}
	c.notify(models.LevelSuccess, "Service removed")
	return c.ReloadProfile(ctx)
}

func (c *Controller) SetDailyRates(ctx context.Context, rates map[string]float64) error {
	if err := c.api.SetDailyRates(ctx, rates); err != nil {
		return c.handle(err, "Failed to save daily rates", false)
	}
	c.notify(models.LevelSuccess, "Daily rates saved")
	return c.ReloadProfile(ctx)
}

// MarkCashPaid records a cash settlement for a completed, unpaid job.
func (c *Controller) MarkCashPaid(ctx context.Context, bookingID string) error {
	b, err := c.booking(bookingID)
	if err != nil {
		return c.handle(err, "Booking not found", false)
	}
	if !booking.Offers(b, c.viewer(), nil, booking.ActionMarkCashPaid) {
		c.notify(models.LevelWarning, "This job cannot be marked as paid")
		return ErrNotOffered
	}
	if err := c.api.MarkCashPaid(ctx, bookingID); err != nil {
		return c.handle(err, "Failed to mark as paid", false)
	}
	c.notify(models.LevelSuccess, "Marked as paid in cash")
	return c.ReloadProviderBookings(ctx)
}

func (c *Controller) ChatThread(ctx context.Context, bookingID string) ([]models.ChatMessage, error) {
	msgs, err := c.api.ChatMessages(ctx, bookingID)
	if err != nil {
		return nil, c.handle(err, "Failed to load messages", true)
	}
	return msgs, nil
}

func (c *Controller) SendChat(ctx context.Context, bookingID, text string) error {
	if err := c.api.SendChatMessage(ctx, bookingID, text); err != nil {
		return c.handle(err, "Failed to send message", false)
	}
	return nil
}

func (c *Controller) ServiceCatalog(ctx context.Context) ([]models.ServiceOffering, error) {
	services, err := c.api.ServiceCatalog(ctx)
	if err != nil {
		return nil, c.handle(err, "Failed to load services", true)
	}
	return services, nil
}

func (c *Controller) ReloadServiceRequests(ctx context.Context) error {
	reqs, err := c.api.ProviderServiceRequests(ctx)
	if err != nil {
		if api.KindOf(err) == api.NotFound {
			c.store.ReplaceServiceRequests(nil)
		}
		return c.handle(err, "Failed to load service requests", true)
	}
	c.store.ReplaceServiceRequests(reqs)
	return nil
}
