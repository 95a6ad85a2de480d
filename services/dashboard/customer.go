package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"hoofix/models"
	"hoofix/services/api"
	"hoofix/services/booking"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNotOffered means the requested action is not available for the booking
// in its current state.
var ErrNotOffered = errors.New("action not offered for this booking")

// LoadCustomer fetches bookings and the wallet side by side.
func (c *Controller) LoadCustomer(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.ReloadBookings(ctx) })
	g.Go(func() error { return c.ReloadWallet(ctx) })
	return g.Wait()
}

func (c *Controller) ReloadBookings(ctx context.Context) error {
	var (
		bookings []models.Booking
		err      error
	)
	if c.page == PageProvider {
		bookings, err = c.api.ProviderBookings(ctx)
	} else {
		bookings, err = c.api.CustomerBookings(ctx)
	}
	if err != nil {
		if api.KindOf(err) == api.NotFound {
			c.store.ReplaceBookings(nil)
		}
		return c.handle(err, "Error loading bookings", true)
	}
	c.store.ReplaceBookings(bookings)
	return nil
}

func (c *Controller) ReloadWallet(ctx context.Context) error {
	w, err := c.api.Wallet(ctx)
	if err != nil {
		return c.handle(err, "Error loading wallet", true)
	}
	c.store.SetWallet(w)
	return nil
}

func (c *Controller) booking(id string) (models.Booking, error) {
	b, ok := c.store.Booking(id)
	if !ok {
		return models.Booking{}, &api.Error{Kind: api.NotFound, Op: "find booking", Message: "booking " + id + " is not loaded"}
	}
	return b, nil
}

// Rate submits a rating for a completed booking and reloads the list so the
// rating shows.
func (c *Controller) Rate(ctx context.Context, bookingID string, rating int, review string) error {
	if err := api.ValidateRating(rating); err != nil {
		c.notify(models.LevelWarning, "Please select a rating between 1 and 5 stars")
		return err
	}
	if err := c.api.RateBooking(ctx, bookingID, rating, review); err != nil {
		return c.handle(err, "Failed to submit rating", false)
	}
	c.notify(models.LevelSuccess, "Thank you for your rating!")
	return c.ReloadBookings(ctx)
}

func (c *Controller) prefill() booking.Prefill {
	return booking.Prefill{Name: c.identity.Name, Email: c.identity.Email}
}

// StartBookingCheckout opens a gateway order for a rated, unpaid booking and
// returns what the checkout widget needs.
func (c *Controller) StartBookingCheckout(ctx context.Context, bookingID string) (booking.CheckoutConfig, error) {
	b, err := c.booking(bookingID)
	if err != nil {
		return booking.CheckoutConfig{}, c.handle(err, "Booking not found", false)
	}
	if !booking.Offers(b, c.viewer(), nil, booking.ActionPayGateway) {
		c.notify(models.LevelWarning, "This booking cannot be paid right now")
		return booking.CheckoutConfig{}, ErrNotOffered
	}

	key, err := c.api.PaymentKey(ctx)
	if err != nil {
		return booking.CheckoutConfig{}, c.handle(err, "Payment is unavailable right now", false)
	}
	order, err := c.api.CreateBookingOrder(ctx, b.ID, b.Price, c.opts.Currency)
	if err != nil {
		return booking.CheckoutConfig{}, c.handle(err, "Failed to create payment order", false)
	}
	return c.checkouts.Begin(booking.NewBookingCheckout(key, c.opts.CheckoutName, c.opts.Currency, b, order, c.prefill())), nil
}

// CompleteBookingCheckout forwards the widget result for verification. Only
// the backend's answer counts as proof of payment.
func (c *Controller) CompleteBookingCheckout(ctx context.Context, res booking.CheckoutCompleted) error {
	cfg, proof, err := c.checkouts.Complete(res)
	if err != nil {
		c.notify(models.LevelError, "Payment could not be matched to an order")
		return err
	}
	if cfg.Purpose != booking.PurposeBooking {
		c.notify(models.LevelError, "Payment could not be matched to an order")
		return fmt.Errorf("checkout %s is a %s checkout", cfg.ID, cfg.Purpose)
	}

	result, err := c.api.VerifyBookingPayment(ctx, proof)
	if err != nil {
		return c.handle(err, "Payment verification failed", false)
	}
	if !result.Success {
		c.notify(models.LevelError, "Payment verification failed")
		return fmt.Errorf("payment for booking %s not verified: %s", cfg.BookingID, result.Message)
	}
	c.notify(models.LevelSuccess, "Payment successful!")
	return c.ReloadBookings(ctx)
}

// CancelCheckout records a dismissed widget. Nothing is charged or sent.
func (c *Controller) CancelCheckout(checkoutID string) {
	c.checkouts.Cancel(checkoutID)
	c.notify(models.LevelWarning, "Payment cancelled")
}

// PayWithWallet settles a booking from wallet credits. The local balance
// check only saves a round trip; the backend has the final say.
func (c *Controller) PayWithWallet(ctx context.Context, bookingID string) error {
	b, err := c.booking(bookingID)
	if err != nil {
		return c.handle(err, "Booking not found", false)
	}
	balance := c.store.WalletBalance()
	if balance == nil {
		if err := c.ReloadWallet(ctx); err != nil {
			return err
		}
		balance = c.store.WalletBalance()
	}
	if balance != nil {
		if err := booking.CheckWalletFunds(*balance, b.Price); err != nil {
			var short *booking.InsufficientFundsError
			errors.As(err, &short)
			c.notify(models.LevelWarning, fmt.Sprintf("Insufficient wallet balance. Add %.2f more credits to pay.", short.Shortfall))
			return err
		}
	}
	if !booking.Offers(b, c.viewer(), balance, booking.ActionPayWallet) {
		c.notify(models.LevelWarning, "This booking cannot be paid from the wallet")
		return ErrNotOffered
	}

	if _, err := c.api.PayFromWallet(ctx, bookingID); err != nil {
		if api.KindOf(err) == api.InsufficientFunds {
			c.notify(models.LevelWarning, "Insufficient wallet balance")
			_ = c.ReloadWallet(ctx)
			return err
		}
		return c.handle(err, "Wallet payment failed", false)
	}
	c.notify(models.LevelSuccess, "Paid from wallet")

	var g errgroup.Group
	g.Go(func() error { return c.ReloadBookings(ctx) })
	g.Go(func() error { return c.ReloadWallet(ctx) })
	return g.Wait()
}

// StartTopUp opens a gateway order to add amount credits.
func (c *Controller) StartTopUp(ctx context.Context, amount float64) (booking.CheckoutConfig, error) {
	order, err := c.api.CreateTopUpOrder(ctx, amount)
	if err != nil {
		return booking.CheckoutConfig{}, c.handle(err, "Failed to start top-up", false)
	}
	return c.checkouts.Begin(booking.NewTopUpCheckout(c.opts.CheckoutName, order, c.prefill())), nil
}

func (c *Controller) CompleteTopUp(ctx context.Context, res booking.CheckoutCompleted) error {
	cfg, proof, err := c.checkouts.Complete(res)
	if err != nil {
		c.notify(models.LevelError, "Payment could not be matched to an order")
		return err
	}
	if cfg.Purpose != booking.PurposeTopUp {
		c.notify(models.LevelError, "Payment could not be matched to an order")
		return fmt.Errorf("checkout %s is a %s checkout", cfg.ID, cfg.Purpose)
	}

	result, err := c.api.VerifyTopUp(ctx, proof)
	if err != nil {
		return c.handle(err, "Top-up verification failed", false)
	}
	if !result.Success {
		c.notify(models.LevelError, "Top-up verification failed")
		return fmt.Errorf("top-up %s not verified: %s", cfg.OrderID, result.Message)
	}
	c.logger.Info("wallet topped up", zap.String("order", cfg.OrderID), zap.Int64("amount", cfg.Amount))
	c.notify(models.LevelSuccess, "Credits added to your wallet")
	return c.ReloadWallet(ctx)
}

func (c *Controller) ViewCompletion(ctx context.Context, bookingID string) (models.Completion, error) {
	comp, err := c.api.Completion(ctx, bookingID)
	if err != nil {
		return models.Completion{}, c.handle(err, "Completion details not available", false)
	}
	return comp, nil
}

// TrackProviderURL builds the tracking page link for an active booking. The
// customer's coordinates are appended when known.
func (c *Controller) TrackProviderURL(bookingID string, userLat, userLon *float64) (string, error) {
	b, err := c.booking(bookingID)
	if err != nil {
		return "", err
	}
	if !booking.Offers(b, c.viewer(), nil, booking.ActionTrackProvider) {
		return "", ErrNotOffered
	}
	q := url.Values{}
	q.Set("provider_id", b.ProviderID)
	q.Set("booking_id", b.ID)
	if userLat != nil && userLon != nil {
		q.Set("user_lat", fmt.Sprintf("%g", *userLat))
		q.Set("user_lon", fmt.Sprintf("%g", *userLon))
	}
	return "/track-provider?" + q.Encode(), nil
}
