package render

import (
	"strings"
	"testing"
	"time"

	"hoofix/models"
	"hoofix/services/booking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	assert.Equal(t, FilterActive, ParseFilter("active"))
	assert.Equal(t, FilterCompleted, ParseFilter(" Completed "))
	assert.Equal(t, FilterAll, ParseFilter("whatever"))
	assert.Equal(t, FilterAll, ParseFilter(""))
}

func TestRowsFilterKeepsOrder(t *testing.T) {
	bookings := []models.Booking{
		{ID: "1", Status: models.StatusCompleted},
		{ID: "2", Status: models.StatusPending},
		{ID: "3", Status: models.StatusCancelled},
		{ID: "4", Status: models.StatusInProgress},
		{ID: "5", Status: models.StatusAccepted},
	}
	ids := func(rows []Row) []string {
		var out []string
		for _, r := range rows {
			out = append(out, r.ID)
		}
		return out
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, ids(Rows(bookings, FilterAll, Options{})))
	assert.Equal(t, []string{"2", "4", "5"}, ids(Rows(bookings, FilterActive, Options{})))
	assert.Equal(t, []string{"1"}, ids(Rows(bookings, FilterCompleted, Options{})))
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, "warning", StatusBadge(models.StatusPending).Color)
	assert.Equal(t, "primary", StatusBadge(models.StatusAccepted).Color)
	assert.Equal(t, "info", StatusBadge(models.StatusInProgress).Color)
	assert.Equal(t, "success", StatusBadge(models.StatusCompleted).Color)
	assert.Equal(t, "secondary", StatusBadge(models.StatusCancelled).Color)
	assert.Equal(t, "danger", StatusBadge(models.StatusRejected).Color)

	colors := map[string]bool{}
	for _, s := range []models.BookingStatus{models.StatusPending, models.StatusAccepted, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled, models.StatusRejected} {
		colors[StatusBadge(s).Color] = true
	}
	assert.Len(t, colors, 6)

	unknown := StatusBadge("")
	assert.Equal(t, "light", unknown.Color)
	assert.Equal(t, "clock", unknown.Icon)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "₹0", FormatCurrency(0))
	assert.Equal(t, "₹500", FormatCurrency(500))
	assert.Equal(t, "₹1,250.50", FormatCurrency(1250.5))
	assert.Equal(t, "₹1,25,000", FormatCurrency(125000))
	assert.Equal(t, "-₹99.99", FormatCurrency(-99.99))
}

func TestFormatDate(t *testing.T) {
	ts := models.NewTimestamp(time.Date(2024, 3, 1, 14, 5, 0, 0, time.UTC))
	assert.Equal(t, "01 Mar 2024, 02:05 PM", FormatDate(ts, time.UTC))
	assert.Equal(t, "N/A", FormatDate(models.Timestamp{}, time.UTC))
}

func TestServiceIcon(t *testing.T) {
	assert.Equal(t, "bolt", ServiceIcon("Electrician"))
	assert.Equal(t, "tools", ServiceIcon("Gardening"))
}

func TestBookingListRendersActionsAndEscapes(t *testing.T) {
	rating := 4.0
	rows := Rows([]models.Booking{
		{ID: "b1", ServiceName: "<script>alert(1)</script>", Status: models.StatusCompleted, Price: 500, Rating: &rating},
	}, FilterAll, Options{Viewer: booking.ViewerCustomer, Location: time.UTC})

	html, err := BookingList(rows)
	require.NoError(t, err)
	out := string(html)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, `data-action="pay-gateway"`)
	assert.NotContains(t, out, `data-action="pay-wallet"`)
	assert.Contains(t, out, "Rated 4/5")
	assert.Contains(t, out, "₹500")
}

func TestEmptyStates(t *testing.T) {
	for name, fn := range map[string]func() (string, error){
		"bookings": func() (string, error) { h, err := BookingList(nil); return string(h), err },
		"incoming": func() (string, error) { h, err := IncomingList(nil); return string(h), err },
		"txs":      func() (string, error) { h, err := Transactions(nil); return string(h), err },
		"addrs":    func() (string, error) { h, err := Addresses(nil); return string(h), err },
	} {
		out, err := fn()
		require.NoError(t, err, name)
		assert.True(t, strings.Contains(out, "empty-state"), name)
	}
}

func TestIncomingListRendersChatPreview(t *testing.T) {
	html, err := IncomingList([]models.IncomingRequest{
		{Kind: models.IncomingChat, Booking: models.Booking{ID: "b2", ServiceName: "Plumbing"}, LastMessage: &models.ChatMessage{SenderName: "Asha", Message: "running late"}},
		{Kind: models.IncomingBooking, Booking: models.Booking{ID: "b3", ServiceName: "Cleaning", Price: 300}},
	})
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "running late")
	assert.Contains(t, out, `data-action="accept" data-booking="b3"`)
}

func TestTransactionsSigns(t *testing.T) {
	html, err := Transactions([]models.Transaction{
		{Type: models.TransactionCredit, Amount: 100, Description: "Top-up", BalanceAfter: 100},
		{Type: models.TransactionDebit, Amount: 40, Source: "booking", BalanceAfter: 60},
	})
	require.NoError(t, err)
	out := string(html)
	assert.Contains(t, out, "+₹100")
	assert.Contains(t, out, "-₹40")
	assert.Contains(t, out, "booking")
}
