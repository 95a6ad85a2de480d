package render

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"hoofix/models"
	"hoofix/services/booking"
)

var actionButtons = map[booking.Action]struct{ Title, Icon, Color string }{
	booking.ActionView:           {"View Details", "eye", "primary"},
	booking.ActionTrackProvider:  {"Track Provider", "map-marker-alt", "info"},
	booking.ActionRate:           {"Rate Service", "star", "warning"},
	booking.ActionPayGateway:     {"Make Payment", "credit-card", "success"},
	booking.ActionPayWallet:      {"Pay from Wallet", "wallet", "success"},
	booking.ActionViewCompletion: {"View Completion", "check-circle", "info"},
	booking.ActionAccept:         {"Accept", "check", "success"},
	booking.ActionReject:         {"Reject", "times", "danger"},
	booking.ActionStart:          {"Start Job", "play", "primary"},
	booking.ActionComplete:       {"Complete Job", "flag-checkered", "success"},
	booking.ActionMarkCashPaid:   {"Mark Cash Paid", "money-bill", "success"},
}

var funcs = template.FuncMap{
	"button": func(a booking.Action) bool {
		_, ok := actionButtons[a]
		return ok
	},
	"title": func(a booking.Action) string { return actionButtons[a].Title },
	"icon":  func(a booking.Action) string { return actionButtons[a].Icon },
	"color": func(a booking.Action) string { return actionButtons[a].Color },
	"money": FormatCurrency,
	"date":  func(ts models.Timestamp) string { return FormatDate(ts, time.Local) },
}

const bookingListTmpl = `{{if not .}}<div class="empty-state"><i class="fas fa-calendar-times"></i><h6>No bookings found</h6><p class="small">Bookings you make will appear here</p></div>{{else}}{{range .}}
<div class="booking-card" data-booking="{{.ID}}">
  <div class="booking-service"><i class="fas fa-{{.ServiceIcon}} fa-2x text-primary"></i><h6>{{.ServiceName}}</h6><small class="text-muted">{{.Created}}</small></div>
  <div class="booking-provider">{{.ProviderName}}</div>
  <span class="status-badge status-{{.Badge.Class}} bg-{{.Badge.Color}}"><i class="fas fa-{{.Badge.Icon}} me-1"></i>{{.Badge.Label}}</span>
  <div class="fw-bold text-primary">{{.Price}}</div>
  <div class="booking-actions">{{$id := .ID}}{{range .Actions}}{{if button .}}<button class="action-btn btn-{{color .}}" data-action="{{.}}" data-booking="{{$id}}" title="{{title .}}"><i class="fas fa-{{icon .}}"></i></button>{{end}}{{end}}{{if .RatingLabel}}<span class="badge bg-success">{{.RatingLabel}}</span>{{end}}{{if .PaymentLabel}}<span class="badge bg-{{.PaymentColor}}">{{.PaymentLabel}}</span>{{end}}</div>
</div>{{end}}{{end}}`

const incomingListTmpl = `{{if not .}}<div class="empty-state"><i class="fas fa-inbox"></i><h6>No incoming requests</h6></div>{{else}}{{range .}}{{if eq .Kind "chat"}}
<div class="chat-card" data-booking="{{.Booking.ID}}"><i class="fas fa-comments"></i><h6>{{.Booking.DisplayServiceName}}</h6><p class="small">{{with .LastMessage}}<strong>{{.SenderName}}:</strong> {{.Text}}{{end}}</p><button class="btn btn-sm btn-primary" data-action="open-chat" data-booking="{{.Booking.ID}}">Reply</button></div>{{else}}
<div class="incoming-card" data-booking="{{.Booking.ID}}"><h6>{{.Booking.DisplayServiceName}}</h6><div class="small">{{.Booking.UserName}}</div><div class="fw-bold">{{money .Booking.Price}}</div><small class="text-muted">{{date .Booking.CreatedAt}}</small>
<button class="btn btn-sm btn-success" data-action="accept" data-booking="{{.Booking.ID}}">Accept</button><button class="btn btn-sm btn-danger" data-action="reject" data-booking="{{.Booking.ID}}">Reject</button></div>{{end}}{{end}}{{end}}`

const transactionsTmpl = `{{if not .}}<div class="empty-state"><i class="fas fa-receipt"></i><h6>No transactions yet</h6></div>{{else}}{{range .}}
<div class="transaction-item {{.Type}}"><div><div class="fw-bold">{{.Label}}</div><small class="text-muted">{{date .CreatedAt}}</small></div><div class="{{if eq .Type "credit"}}text-success{{else}}text-danger{{end}}">{{if eq .Type "credit"}}+{{else}}-{{end}}{{money .Amount}}</div><small>Balance {{money .BalanceAfter}}</small></div>{{end}}{{end}}`

const addressesTmpl = `{{if not .}}<div class="empty-state"><i class="fas fa-map-marker-alt"></i><h6>No saved addresses</h6><p class="small">Add an address for faster checkout</p></div>{{else}}{{range .}}
<div class="address-card{{if .IsDefault}} default{{end}}" data-address="{{.UID}}"><h6>{{.Label}}{{if .IsDefault}} <span class="badge bg-primary">Default</span>{{end}}</h6><p class="small">{{.Address}}</p>{{if not .IsDefault}}<button class="btn btn-sm btn-outline-primary" data-action="default-address" data-address="{{.UID}}">Set Default</button>{{end}}<button class="btn btn-sm btn-outline-danger" data-action="delete-address" data-address="{{.UID}}">Delete</button></div>{{end}}{{end}}`

const notificationsTmpl = `{{range .}}<div class="alert alert-{{if eq .Level "error"}}danger{{else}}{{.Level}}{{end}} alert-dismissible" data-notification="{{.ID}}">{{.Message}}<button type="button" class="btn-close" data-action="dismiss" data-notification="{{.ID}}"></button></div>{{end}}`

var (
	bookingList   = template.Must(template.New("bookings").Funcs(funcs).Parse(bookingListTmpl))
	incomingList  = template.Must(template.New("incoming").Funcs(funcs).Parse(incomingListTmpl))
	transactions  = template.Must(template.New("transactions").Funcs(funcs).Parse(transactionsTmpl))
	addresses     = template.Must(template.New("addresses").Funcs(funcs).Parse(addressesTmpl))
	notifications = template.Must(template.New("notifications").Funcs(funcs).Parse(notificationsTmpl))
)

func execute(t *template.Template, data interface{}) (template.HTML, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return template.HTML(buf.String()), nil
}

// BookingList renders the full booking list; it replaces whatever was shown
// before.
func BookingList(rows []Row) (template.HTML, error) {
	return execute(bookingList, rows)
}

func IncomingList(reqs []models.IncomingRequest) (template.HTML, error) {
	return execute(incomingList, reqs)
}

func Transactions(txs []models.Transaction) (template.HTML, error) {
	return execute(transactions, txs)
}

func Addresses(addrs []models.Address) (template.HTML, error) {
	return execute(addresses, addrs)
}

func Notifications(items []models.Notification) (template.HTML, error) {
	return execute(notifications, items)
}
