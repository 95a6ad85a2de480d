package booking

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"hoofix/models"
	"hoofix/services/api"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Purpose string

const (
	PurposeBooking Purpose = "booking"
	PurposeTopUp   Purpose = "topup"
)

var ErrUnknownCheckout = errors.New("unknown or expired checkout")

type Prefill struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CheckoutConfig is everything the hosted checkout widget needs to open.
type CheckoutConfig struct {
	ID          string    `json:"checkoutId"`
	Purpose     Purpose   `json:"purpose"`
	Key         string    `json:"key"`
	Amount      int64     `json:"amount"` // minor units
	Currency    string    `json:"currency"`
	OrderID     string    `json:"order_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BookingID   string    `json:"bookingId,omitempty"`
	Prefill     Prefill   `json:"prefill"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CheckoutCompleted is the widget's success callback payload. It proves
// nothing by itself and is forwarded verbatim for verification.
type CheckoutCompleted struct {
	CheckoutID string `json:"checkout_id"`
	PaymentID  string `json:"razorpay_payment_id"`
	OrderID    string `json:"razorpay_order_id"`
	Signature  string `json:"razorpay_signature"`
}

func (c CheckoutCompleted) Validate() error {
	fields := map[string]string{}
	if c.CheckoutID == "" {
		fields["checkout_id"] = "missing"
	}
	if c.PaymentID == "" {
		fields["razorpay_payment_id"] = "missing"
	}
	if c.OrderID == "" {
		fields["razorpay_order_id"] = "missing"
	}
	if c.Signature == "" {
		fields["razorpay_signature"] = "missing"
	}
	if len(fields) > 0 {
		return &ValidationError{Op: "complete checkout", Fields: fields}
	}
	return nil
}

// ToMinorUnits converts a major-unit price to the gateway's integer amount.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func NewBookingCheckout(key, name, currency string, b models.Booking, order models.PaymentOrder, prefill Prefill) CheckoutConfig {
	amount := order.Amount
	if amount == 0 {
		amount = ToMinorUnits(b.Price)
	}
	if order.Currency != "" {
		currency = order.Currency
	}
	return CheckoutConfig{
		Purpose:     PurposeBooking,
		Key:         key,
		Amount:      amount,
		Currency:    currency,
		OrderID:     order.ID,
		Name:        name,
		Description: fmt.Sprintf("Payment for %s", b.DisplayServiceName()),
		BookingID:   b.ID,
		Prefill:     prefill,
	}
}

func NewTopUpCheckout(name string, order models.TopUpOrder, prefill Prefill) CheckoutConfig {
	return CheckoutConfig{
		Purpose:     PurposeTopUp,
		Key:         order.KeyID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		OrderID:     order.OrderID,
		Name:        name,
		Description: "Wallet top-up",
		Prefill:     prefill,
	}
}

// Checkouts tracks widgets that have been opened but not yet completed or
// dismissed, so a completion can be matched to the order it was opened for.
type Checkouts struct {
	mu      sync.Mutex
	logger  *zap.Logger
	pending map[string]CheckoutConfig
}

func NewCheckouts(logger *zap.Logger) *Checkouts {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checkouts{logger: logger, pending: map[string]CheckoutConfig{}}
}

// Begin registers cfg and returns it with its checkout id assigned.
func (c *Checkouts) Begin(cfg CheckoutConfig) CheckoutConfig {
	cfg.ID = uuid.New().String()
	cfg.CreatedAt = time.Now()

	c.mu.Lock()
	c.pending[cfg.ID] = cfg
	c.mu.Unlock()

	c.logger.Info("Checkout opened",
		zap.String("checkout", cfg.ID),
		zap.String("purpose", string(cfg.Purpose)),
		zap.String("order", cfg.OrderID),
		zap.Int64("amount", cfg.Amount),
	)
	return cfg
}

// Complete consumes the pending checkout and builds the proof to verify.
func (c *Checkouts) Complete(res CheckoutCompleted) (CheckoutConfig, api.GatewayProof, error) {
	if err := res.Validate(); err != nil {
		return CheckoutConfig{}, api.GatewayProof{}, err
	}

	c.mu.Lock()
	cfg, ok := c.pending[res.CheckoutID]
	if ok {
		delete(c.pending, res.CheckoutID)
	}
	c.mu.Unlock()

	if !ok {
		return CheckoutConfig{}, api.GatewayProof{}, ErrUnknownCheckout
	}
	if cfg.OrderID != "" && cfg.OrderID != res.OrderID {
		c.logger.Warn("Checkout order mismatch",
			zap.String("checkout", cfg.ID),
			zap.String("expected", cfg.OrderID),
			zap.String("got", res.OrderID),
		)
		return cfg, api.GatewayProof{}, &ValidationError{
			Op:     "complete checkout",
			Fields: map[string]string{"razorpay_order_id": "does not match the opened order"},
		}
	}

	proof := api.GatewayProof{
		PaymentID: res.PaymentID,
		OrderID:   res.OrderID,
		Signature: res.Signature,
		BookingID: cfg.BookingID,
	}
	return cfg, proof, nil
}

// Cancel drops a dismissed checkout. Nothing is sent to the backend.
func (c *Checkouts) Cancel(id string) (CheckoutConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cfg, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
		c.logger.Info("Checkout dismissed", zap.String("checkout", id))
	}
	return cfg, ok
}

func (c *Checkouts) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
