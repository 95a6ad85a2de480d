package booking

import (
	"strings"

	"hoofix/models"
)

// ValidateCompletion checks the completion form. Both problems are reported
// together so the form can flag each field.
func ValidateCompletion(notes string, images []models.FileUpload) error {
	fields := map[string]string{}
	if strings.TrimSpace(notes) == "" {
		fields["completion_notes"] = "Please describe the work that was done"
	}
	if len(images) == 0 {
		fields["images"] = "Please attach at least one photo"
	}
	if len(fields) > 0 {
		return &ValidationError{Op: "complete job", Fields: fields}
	}
	return nil
}

// CheckWalletFunds is advisory: the backend makes the final decision.
func CheckWalletFunds(balance, price float64) error {
	if balance < price {
		return &InsufficientFundsError{Balance: balance, Price: price, Shortfall: price - balance}
	}
	return nil
}
