package api

import (
	"context"
	"math"
	"net/http"

	"hoofix/models"
)

// GatewayProof is the opaque result of a completed checkout widget. It is
// forwarded verbatim; only the backend can verify it.
type GatewayProof struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
	BookingID string `json:"booking_id,omitempty"`
}

// PaymentKey fetches the public checkout key. It needs no credential.
func (c *Client) PaymentKey(ctx context.Context) (string, error) {
	var out models.PaymentKey
	if err := c.do(ctx, call{op: "load payment key", method: http.MethodGet, path: "/payments/razorpay/get-key", public: true}, &out); err != nil {
		return "", err
	}
	return out.KeyID, nil
}

// CreateBookingOrder opens a gateway order for a completed booking. price is
// in major units and sent as minor units.
func (c *Client) CreateBookingOrder(ctx context.Context, bookingID string, price float64, currency string) (models.PaymentOrder, error) {
	var out models.PaymentOrder
	if price <= 0 {
		return out, invalid("create booking order", "price must be positive")
	}
	payload := map[string]interface{}{
		"amount":     int64(math.Round(price * 100)),
		"currency":   currency,
		"booking_id": bookingID,
	}
	err := c.sendJSON(ctx, "create booking order", http.MethodPost, "/payments/razorpay/create-order", payload, &out)
	return out, err
}

func (c *Client) VerifyBookingPayment(ctx context.Context, proof GatewayProof) (models.VerifyResult, error) {
	var out models.VerifyResult
	if proof.BookingID == "" {
		return out, invalid("verify booking payment", "booking id is required")
	}
	err := c.sendJSON(ctx, "verify booking payment", http.MethodPost, "/payments/razorpay/verify", proof, &out)
	return out, err
}

// MarkCashPaid records that the provider collected cash for a job.
func (c *Client) MarkCashPaid(ctx context.Context, bookingID string) error {
	return c.sendJSON(ctx, "mark cash paid", http.MethodPost, "/payments/mark-cash", map[string]string{"booking_id": bookingID}, nil)
}
