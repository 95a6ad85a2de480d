package booking

import (
	"fmt"
	"sort"
	"strings"

	"hoofix/services/api"
)

// ValidationError lists the form fields that failed local validation. It is
// raised before any network call.
type ValidationError struct {
	Op     string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", e.Op, strings.Join(parts, "; "))
}

func (e *ValidationError) ErrorKind() api.Kind {
	return api.InvalidInput
}

// InsufficientFundsError is the client-side wallet check failing.
type InsufficientFundsError struct {
	Balance   float64
	Price     float64
	Shortfall float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient wallet balance: have %.2f, need %.2f", e.Balance, e.Price)
}

func (e *InsufficientFundsError) ErrorKind() api.Kind {
	return api.InsufficientFunds
}
