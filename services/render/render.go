package render

import (
	"fmt"
	"math"
	"strings"
	"time"

	"hoofix/models"
	"hoofix/services/booking"
)

// Filter selects which bookings a list shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// ParseFilter falls back to FilterAll for anything unrecognised.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterActive:
		return FilterActive
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

func (f Filter) Match(b models.Booking) bool {
	switch f {
	case FilterActive:
		return b.Status.IsActive()
	case FilterCompleted:
		return b.Status == models.StatusCompleted
	default:
		return true
	}
}

// Badge is the coloured status pill of a row.
type Badge struct {
	Class string
	Color string
	Icon  string
	Label string
}

func StatusBadge(s models.BookingStatus) Badge {
	b := Badge{Class: "unknown", Color: "light", Icon: "clock", Label: string(s)}
	switch s {
	case models.StatusPending:
		b.Class, b.Color = "pending", "warning"
	case models.StatusAccepted:
		b.Class, b.Color, b.Icon = "accepted", "primary", "check"
	case models.StatusInProgress:
		b.Class, b.Color, b.Icon = "in-progress", "info", "cog"
	case models.StatusCompleted:
		b.Class, b.Color, b.Icon = "completed", "success", "check-circle"
	case models.StatusCancelled:
		b.Class, b.Color, b.Icon = "cancelled", "secondary", "ban"
	case models.StatusRejected:
		b.Class, b.Color, b.Icon = "rejected", "danger", "times"
	}
	if b.Label == "" {
		b.Label = "Unknown"
	}
	return b
}

var serviceIcons = map[string]string{
	"electrician": "bolt",
	"plumber":     "wrench",
	"plumbing":    "wrench",
	"carpenter":   "hammer",
	"cleaner":     "broom",
	"cleaning":    "broom",
	"painter":     "paint-brush",
	"painting":    "paint-brush",
	"ac repair":   "snowflake",
}

func ServiceIcon(serviceName string) string {
	if icon, ok := serviceIcons[strings.ToLower(strings.TrimSpace(serviceName))]; ok {
		return icon
	}
	return "tools"
}

// FormatCurrency renders an amount in rupees with Indian digit grouping.
// Whole amounts drop the paise.
func FormatCurrency(amount float64) string {
	neg := amount < 0
	amount = math.Abs(amount)
	paise := int64(math.Round(amount * 100))
	whole, frac := paise/100, paise%100

	digits := fmt.Sprintf("%d", whole)
	if len(digits) > 3 {
		head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		digits = strings.Join(groups, ",") + "," + tail
	}

	out := "₹" + digits
	if frac != 0 {
		out += fmt.Sprintf(".%02d", frac)
	}
	if neg {
		out = "-" + out
	}
	return out
}

const dateLayout = "02 Jan 2006, 03:04 PM"

// FormatDate renders ts in loc, or "N/A" when it is missing.
func FormatDate(ts models.Timestamp, loc *time.Location) string {
	if ts.IsZero() {
		return "N/A"
	}
	if loc == nil {
		loc = time.Local
	}
	return ts.In(loc).Format(dateLayout)
}

type Options struct {
	Viewer        booking.Viewer
	WalletBalance *float64
	Location      *time.Location
}

// Row is a booking projected for display.
type Row struct {
	ID           string
	ServiceName  string
	ServiceIcon  string
	ProviderName string
	UserName     string
	Badge        Badge
	Price        string
	Created      string
	Actions      []booking.Action
	RatingLabel  string
	PaymentLabel string
	PaymentColor string
	HasLocation  bool
	Notes        string
}

func (r Row) Offers(a booking.Action) bool {
	for _, x := range r.Actions {
		if x == a {
			return true
		}
	}
	return false
}

func NewRow(b models.Booking, opts Options) Row {
	row := Row{
		ID:           b.ID,
		ServiceName:  b.DisplayServiceName(),
		ServiceIcon:  ServiceIcon(b.ServiceName),
		ProviderName: b.DisplayProviderName(),
		UserName:     b.UserName,
		Badge:        StatusBadge(b.Status),
		Price:        FormatCurrency(b.Price),
		Created:      FormatDate(b.CreatedAt, opts.Location),
		Actions:      booking.OfferedActions(b, opts.Viewer, opts.WalletBalance),
		HasLocation:  b.HasLocation(),
		Notes:        b.Notes,
	}
	if b.RatingShown() {
		row.RatingLabel = fmt.Sprintf("Rated %s/5", trimFloat(*b.Rating))
	}
	if b.PaymentStatusShown() {
		row.PaymentLabel = *b.PaymentStatus
		row.PaymentColor = "warning"
		if strings.EqualFold(*b.PaymentStatus, "success") {
			row.PaymentColor = "success"
		}
	}
	return row
}

// Rows projects the bookings matching f, keeping collection order.
func Rows(bookings []models.Booking, f Filter, opts Options) []Row {
	rows := make([]Row, 0, len(bookings))
	for _, b := range bookings {
		if f.Match(b) {
			rows = append(rows, NewRow(b, opts))
		}
	}
	return rows
}

func trimFloat(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%.1f", f)
}
