package models

import (
	"encoding/json"
	"fmt"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

func (t *TransactionType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("transaction type: %w", err)
	}
	switch TransactionType(raw) {
	case TransactionCredit, TransactionDebit:
		*t = TransactionType(raw)
		return nil
	default:
		return fmt.Errorf("unknown transaction type %q", raw)
	}
}

// Transaction is one wallet ledger entry.
type Transaction struct {
	ID                string          `json:"id"`
	Type              TransactionType `json:"transaction_type"`
	Amount            float64         `json:"amount"`
	Source            string          `json:"source"`
	Description       string          `json:"description"`
	BalanceAfter      float64         `json:"balance_after"`
	CreatedAt         Timestamp       `json:"created_at"`
	ExternalReference *string         `json:"external_reference,omitempty"`
	Commission        *Commission     `json:"commission,omitempty"`
}

func (t Transaction) Label() string {
	if t.Description != "" {
		return t.Description
	}
	return t.Source
}

// Commission is attached to provider-side debits.
type Commission struct {
	BookingID string  `json:"booking_id,omitempty"`
	Rate      float64 `json:"rate"`
	Amount    float64 `json:"amount"`
}

type PendingReferral struct {
	ID           string    `json:"id"`
	ReferralCode string    `json:"referral_code"`
	CreatedAt    Timestamp `json:"created_at"`
}

// WalletSummary is the customer's prepaid credit balance. Credits is the
// backend's figure and is never recomputed from Transactions.
type WalletSummary struct {
	Credits              float64          `json:"credits"`
	Transactions         []Transaction    `json:"transactions"`
	ReferralCode         string           `json:"referral_code"`
	ReferralBonusClaimed bool             `json:"referral_bonus_claimed"`
	ReferredBy           *string          `json:"referred_by,omitempty"`
	PendingReferral      *PendingReferral `json:"pending_referral,omitempty"`
}
