package booking

import "hoofix/models"

// Action is something the user may do with a booking row.
type Action string

const (
	ActionView           Action = "view"
	ActionTrackProvider  Action = "track-provider"
	ActionRate           Action = "rate"
	ActionPayGateway     Action = "pay-gateway"
	ActionPayWallet      Action = "pay-wallet"
	ActionViewCompletion Action = "view-completion"
	ActionShowRating     Action = "show-rating"
	ActionShowPayment    Action = "show-payment-status"
	ActionAccept         Action = "accept"
	ActionReject         Action = "reject"
	ActionStart          Action = "start"
	ActionComplete       Action = "complete"
	ActionMarkCashPaid   Action = "mark-cash-paid"
)

type Viewer string

const (
	ViewerCustomer Viewer = "customer"
	ViewerProvider Viewer = "provider"
)

// OfferedActions is a pure function of the booking, the viewer and the known
// wallet balance (nil when no wallet is loaded). It never changes a status.
func OfferedActions(b models.Booking, viewer Viewer, walletBalance *float64) []Action {
	actions := []Action{ActionView}

	switch b.Status {
	case models.StatusPending:
		if viewer == ViewerProvider {
			actions = append(actions, ActionAccept, ActionReject)
		}
	case models.StatusAccepted:
		actions = append(actions, ActionTrackProvider)
		if viewer == ViewerProvider {
			actions = append(actions, ActionStart)
		}
	case models.StatusInProgress:
		actions = append(actions, ActionTrackProvider)
		if viewer == ViewerProvider {
			actions = append(actions, ActionComplete)
		}
	case models.StatusCompleted:
		if viewer == ViewerProvider {
			actions = append(actions, ActionViewCompletion)
			if b.IsRated() {
				actions = append(actions, ActionShowRating)
			}
			if b.HasPayment {
				actions = append(actions, ActionShowPayment)
			} else {
				actions = append(actions, ActionMarkCashPaid)
			}
			return actions
		}
		switch {
		case !b.IsRated():
			actions = append(actions, ActionRate, ActionViewCompletion)
		case !b.HasPayment:
			actions = append(actions, ActionPayGateway)
			if walletBalance != nil && *walletBalance >= b.Price {
				actions = append(actions, ActionPayWallet)
			}
			actions = append(actions, ActionViewCompletion, ActionShowRating)
		default:
			actions = append(actions, ActionViewCompletion, ActionShowRating, ActionShowPayment)
		}
	}
	return actions
}

// Offers reports whether a is among the actions offered for b.
func Offers(b models.Booking, viewer Viewer, walletBalance *float64, a Action) bool {
	for _, offered := range OfferedActions(b, viewer, walletBalance) {
		if offered == a {
			return true
		}
	}
	return false
}
