package api

import (
	"context"
	"net/http"
	"strings"

	"hoofix/models"
)

func (c *Client) Wallet(ctx context.Context) (models.WalletSummary, error) {
	var out models.WalletSummary
	err := c.getJSON(ctx, "load wallet", "/api/wallet", &out)
	return out, err
}

func (c *Client) ApplyReferral(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return invalid("apply referral", "referral code is required")
	}
	return c.sendJSON(ctx, "apply referral", http.MethodPost, "/api/wallet/apply-referral", map[string]string{"referral_code": code}, nil)
}

// CreateTopUpOrder opens a gateway order for adding amount credits.
func (c *Client) CreateTopUpOrder(ctx context.Context, amount float64) (models.TopUpOrder, error) {
	var out models.TopUpOrder
	if amount < 1 {
		return out, invalid("create top-up order", "amount must be at least 1")
	}
	err := c.sendJSON(ctx, "create top-up order", http.MethodPost, "/api/wallet/razorpay/create-order", map[string]float64{"amount": amount}, &out)
	return out, err
}

func (c *Client) VerifyTopUp(ctx context.Context, proof GatewayProof) (models.VerifyResult, error) {
	var out models.VerifyResult
	err := c.sendJSON(ctx, "verify top-up", http.MethodPost, "/api/wallet/razorpay/verify", proof, &out)
	return out, err
}

// PayFromWallet settles a booking from wallet credits. The backend decides
// whether the balance suffices; a refusal maps to InsufficientFunds.
func (c *Client) PayFromWallet(ctx context.Context, bookingID string) (models.VerifyResult, error) {
	var out models.VerifyResult
	err := c.sendJSON(ctx, "pay from wallet", http.MethodPost, "/api/wallet/pay-booking", map[string]string{"booking_id": bookingID}, &out)
	return out, refine(err, InsufficientFunds, "insufficient")
}
