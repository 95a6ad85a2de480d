package models

// PaymentOrder is the gateway order the backend creates for a booking.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt,omitempty"`
}

// TopUpOrder is the gateway order for a wallet top-up.
type TopUpOrder struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type PaymentKey struct {
	KeyID string `json:"key_id"`
}

// VerifyResult is returned by both booking and top-up verification.
type VerifyResult struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message,omitempty"`
	NewBalance *float64 `json:"new_balance,omitempty"`
}
