package viewmodel

import (
	"sync"
	"testing"
	"time"

	"hoofix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusPtr(s models.BookingStatus) *models.BookingStatus { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestCustomerStatsExample(t *testing.T) {
	bookings := []models.Booking{
		{ID: "1", Status: models.StatusCompleted, Price: 500, HasPayment: true},
		{ID: "2", Status: models.StatusCompleted, Price: 300, HasPayment: false},
		{ID: "3", Status: models.StatusPending, Price: 200},
	}
	st := ComputeCustomerStats(bookings)
	assert.Equal(t, CustomerStats{TotalBookings: 3, ActiveBookings: 1, CompletedBookings: 2, TotalSpent: 500}, st)
}

func TestMergeBookingPreservesOtherFields(t *testing.T) {
	s := NewStore()
	s.ReplaceBookings([]models.Booking{
		{ID: "b1", ServiceName: "Plumbing", Status: models.StatusAccepted, Price: 450, ProviderName: "Ravi"},
		{ID: "b2", ServiceName: "Cleaning", Status: models.StatusPending, Price: 200},
	})

	merged, created := s.MergeBooking(models.BookingDelta{ID: "b1", Status: statusPtr(models.StatusInProgress)})
	assert.False(t, created)
	assert.Equal(t, models.StatusInProgress, merged.Status)

	got, ok := s.Booking("b1")
	require.True(t, ok)
	assert.Equal(t, "Plumbing", got.ServiceName)
	assert.Equal(t, 450.0, got.Price)
	assert.Equal(t, "Ravi", got.ProviderName)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Len(t, s.Bookings(), 2)
}

func TestMergeBookingPrependsUnknownID(t *testing.T) {
	s := NewStore()
	s.ReplaceBookings([]models.Booking{{ID: "b1", Status: models.StatusPending}})

	_, created := s.MergeBooking(models.BookingDelta{ID: "b9", Status: statusPtr(models.StatusAccepted), Price: floatPtr(99)})
	assert.True(t, created)

	all := s.Bookings()
	require.Len(t, all, 2)
	assert.Equal(t, "b9", all[0].ID)
	assert.Equal(t, 99.0, all[0].Price)
}

func TestPrependBookingDoesNotDuplicate(t *testing.T) {
	s := NewStore()
	s.PrependBooking(models.Booking{ID: "a", Price: 1})
	s.PrependBooking(models.Booking{ID: "b", Price: 2})
	s.PrependBooking(models.Booking{ID: "a", Price: 3})

	all := s.Bookings()
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, 3.0, all[1].Price)
}

func TestIncomingPrependAndRemove(t *testing.T) {
	s := NewStore()
	s.PrependIncoming(models.IncomingRequest{Kind: models.IncomingBooking, Booking: models.Booking{ID: "b1"}})
	s.PrependIncoming(models.IncomingRequest{Kind: models.IncomingChat, Booking: models.Booking{ID: "b2"}})
	s.PrependIncoming(models.IncomingRequest{Kind: models.IncomingBooking, Booking: models.Booking{ID: "b1", Price: 10}})

	in := s.Incoming()
	require.Len(t, in, 2)
	assert.Equal(t, 10.0, in[1].Booking.Price)

	s.RemoveIncoming("b1")
	in = s.Incoming()
	require.Len(t, in, 1)
	assert.Equal(t, "b2", in[0].Booking.ID)
}

func TestReadsReturnCopies(t *testing.T) {
	s := NewStore()
	s.ReplaceBookings([]models.Booking{{ID: "b1", Price: 10}})
	got := s.Bookings()
	got[0].Price = 999
	b, _ := s.Booking("b1")
	assert.Equal(t, 10.0, b.Price)
}

func TestWalletBalance(t *testing.T) {
	s := NewStore()
	assert.Nil(t, s.WalletBalance())
	s.SetWallet(models.WalletSummary{Credits: 400})
	require.NotNil(t, s.WalletBalance())
	assert.Equal(t, 400.0, *s.WalletBalance())
}

func TestSubscribersSeeEveryMutation(t *testing.T) {
	s := NewStore()
	var mu sync.Mutex
	var seen []uint64
	s.Subscribe(func(v uint64) {
		mu.Lock()
		seen = append(seen, v)
		mu.Unlock()
	})

	s.ReplaceBookings(nil)
	s.SetAvailability(true)
	s.RemoveBooking("x")

	assert.Equal(t, []uint64{1, 2, 3}, seen)
	assert.EqualValues(t, 3, s.Version())
}

func TestConcurrentMergesAreAtomic(t *testing.T) {
	s := NewStore()
	s.ReplaceBookings([]models.Booking{{ID: "b1", Status: models.StatusPending}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.MergeBooking(models.BookingDelta{ID: "b1", Price: floatPtr(float64(i))})
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Bookings(), 1)
	assert.EqualValues(t, 51, s.Version())
}

func TestProviderStats(t *testing.T) {
	empty := ComputeProviderStats(nil)
	assert.Equal(t, 5.0, empty.AverageRating)

	st := ComputeProviderStats([]models.Booking{
		{Status: models.StatusCompleted, Price: 400, Rating: floatPtr(4)},
		{Status: models.StatusCompleted, Price: 600, Rating: floatPtr(5)},
		{Status: models.StatusCompleted, Price: 100},
		{Status: models.StatusPending, Price: 50},
	})
	assert.Equal(t, 4, st.TotalJobs)
	assert.Equal(t, 1, st.PendingJobs)
	assert.Equal(t, 3, st.CompletedJobs)
	assert.Equal(t, 4.5, st.AverageRating)
	assert.Equal(t, 1100.0, st.TotalEarnings)
}

func TestDailyEarnings(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)
	at := func(d int) models.Timestamp {
		return models.NewTimestamp(time.Date(2024, 5, d, 9, 0, 0, 0, time.UTC))
	}
	series := DailyEarnings([]models.Booking{
		{Status: models.StatusCompleted, Price: 100, CreatedAt: at(10)},
		{Status: models.StatusCompleted, Price: 50, CreatedAt: at(10)},
		{Status: models.StatusCompleted, Price: 70, CreatedAt: at(4)},
		{Status: models.StatusCompleted, Price: 999, CreatedAt: at(1)},
		{Status: models.StatusPending, Price: 999, CreatedAt: at(9)},
	}, now, 7)

	require.Len(t, series, 7)
	assert.Equal(t, 4, series[0].Day.Day())
	assert.Equal(t, 70.0, series[0].Amount)
	assert.Equal(t, 150.0, series[6].Amount)
	assert.Equal(t, 0.0, series[5].Amount)
}
