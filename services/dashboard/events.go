package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hoofix/models"
	"hoofix/services/notification"
	"hoofix/services/realtime"

	"go.uber.org/zap"
)

const pushTimeout = 5 * time.Second

var _ realtime.Handler = (*Controller)(nil)
var _ realtime.ConnectionListener = (*Controller)(nil)

func (c *Controller) HandleBookingCreated(e realtime.BookingCreated) {
	c.store.PrependBooking(e.Booking)
	if c.page == PageProvider {
		if e.Booking.Status == models.StatusPending {
			c.store.PrependIncoming(models.IncomingRequest{Kind: models.IncomingBooking, Booking: e.Booking})
		}
		c.notify(models.LevelSuccess, "New booking assigned to you!")
		return
	}
	c.notify(models.LevelSuccess, "Booking created")
}

func (c *Controller) HandleNewBookingAvailable(e realtime.NewBookingAvailable) {
	c.notify(models.LevelInfo, fmt.Sprintf("New %s booking available nearby!", e.ServiceName))
}

// HandleBookingStatus merges the pushed fields into the known booking, or
// adds it when the id is new.
func (c *Controller) HandleBookingStatus(e realtime.BookingStatus) {
	merged, created := c.store.MergeBooking(e.Delta)
	if c.page == PageProvider {
		switch {
		case created && merged.Status == models.StatusPending:
			c.store.PrependIncoming(models.IncomingRequest{Kind: models.IncomingBooking, Booking: merged})
		case e.Delta.Status != nil && merged.Status != models.StatusPending:
			c.store.RemoveIncoming(merged.ID)
		}
	}
	c.logger.Debug("booking status pushed",
		zap.String("booking", merged.ID),
		zap.String("status", string(merged.Status)),
		zap.Bool("created", created),
	)
	if e.Delta.Status == nil {
		c.notify(models.LevelInfo, "Booking updated")
		return
	}
	c.notify(models.LevelInfo, fmt.Sprintf("Booking status updated to %s", *e.Delta.Status))
}

func (c *Controller) HandleBookingRated(e realtime.BookingRated) {
	c.notify(models.LevelSuccess, fmt.Sprintf("%s rated your service %g/5 stars!", e.UserName, e.Rating))
	c.reloadAsync("bookings", c.reloadForPage)
}

func (c *Controller) HandleNewMessage(e realtime.NewMessage) {
	c.notify(models.LevelInfo, fmt.Sprintf("New message from %s: %s", e.SenderName, e.Message))
	c.reloadAsync("bookings", c.reloadForPage)
}

// HandleNewServiceRequest raises a system push when permitted, always shows
// an in-page notice, and refreshes the request list if it is on screen.
func (c *Controller) HandleNewServiceRequest(e realtime.NewServiceRequest) {
	title := "New service request"
	if e.Title != "" {
		title = e.Title
	}
	if c.notifier != nil {
		ctx, cancel := context.WithTimeout(c.bg, pushTimeout)
		err := c.notifier.SendPush(ctx, models.PushMessage{
			Title: title,
			Body:  e.Description,
			Data: map[string]string{
				"type":       "new_service_request",
				"request_id": e.RequestID,
				"category":   e.ServiceCategory,
			},
		})
		cancel()
		if err != nil && !errors.Is(err, notification.ErrPushNotPermitted) {
			c.logger.Warn("system push failed", zap.Error(err))
		}
	}
	c.notify(models.LevelInfo, fmt.Sprintf("New service request near you: %s", title))
	if c.View() == ViewServiceRequests {
		c.reloadAsync("service-requests", c.ReloadServiceRequests)
	}
}

func (c *Controller) HandleNotification(e realtime.Notification) {
	if e.Message == "" {
		return
	}
	c.notify(e.Level(), e.Message)
}

func (c *Controller) Connected() {
	c.notify(models.LevelInfo, "Connected to real-time updates")
}

func (c *Controller) Disconnected(err error) {
	c.logger.Info("realtime disconnected", zap.Error(err))
	c.notify(models.LevelWarning, "Disconnected from real-time updates")
}

func (c *Controller) reloadForPage(ctx context.Context) error {
	if c.page == PageProvider {
		return c.ReloadProviderBookings(ctx)
	}
	return c.ReloadBookings(ctx)
}
