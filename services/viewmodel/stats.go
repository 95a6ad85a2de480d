package viewmodel

import (
	"time"

	"hoofix/models"
)

// CustomerStats is derived from the bookings on every read; it is never
// stored.
type CustomerStats struct {
	TotalBookings     int     `json:"totalBookings"`
	ActiveBookings    int     `json:"activeBookings"`
	CompletedBookings int     `json:"completedBookings"`
	TotalSpent        float64 `json:"totalSpent"`
}

// ComputeCustomerStats counts only bookings that are both Completed and paid
// towards TotalSpent.
func ComputeCustomerStats(bookings []models.Booking) CustomerStats {
	var st CustomerStats
	st.TotalBookings = len(bookings)
	for _, b := range bookings {
		if b.Status.IsActive() {
			st.ActiveBookings++
		}
		if b.Status == models.StatusCompleted {
			st.CompletedBookings++
			if b.HasPayment {
				st.TotalSpent += b.Price
			}
		}
	}
	return st
}

func (s *Store) Stats() CustomerStats {
	return ComputeCustomerStats(s.Bookings())
}

type ProviderStats struct {
	TotalJobs     int     `json:"totalJobs"`
	PendingJobs   int     `json:"pendingJobs"`
	CompletedJobs int     `json:"completedJobs"`
	AverageRating float64 `json:"averageRating"`
	TotalEarnings float64 `json:"totalEarnings"`
}

const defaultProviderRating = 5.0

// ComputeProviderStats averages ratings over rated completed jobs. A provider
// with no rated jobs shows the default rating.
func ComputeProviderStats(bookings []models.Booking) ProviderStats {
	st := ProviderStats{TotalJobs: len(bookings), AverageRating: defaultProviderRating}
	var ratingSum float64
	var rated int
	for _, b := range bookings {
		switch b.Status {
		case models.StatusPending:
			st.PendingJobs++
		case models.StatusCompleted:
			st.CompletedJobs++
			st.TotalEarnings += b.Price
			if b.IsRated() {
				ratingSum += *b.Rating
				rated++
			}
		}
	}
	if rated > 0 {
		st.AverageRating = ratingSum / float64(rated)
	}
	return st
}

func (s *Store) ProviderStats() ProviderStats {
	return ComputeProviderStats(s.Bookings())
}

// DayEarnings is one point of the earnings chart.
type DayEarnings struct {
	Day    time.Time `json:"day"`
	Label  string    `json:"label"`
	Amount float64   `json:"amount"`
}

// DailyEarnings buckets completed job prices by creation day over the last
// days days ending with now's day, oldest first.
func DailyEarnings(bookings []models.Booking, now time.Time, days int) []DayEarnings {
	if days <= 0 {
		return nil
	}
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	series := make([]DayEarnings, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-days+1)
		series[i] = DayEarnings{Day: day, Label: day.Format("Mon")}
		index[day.Format("2006-01-02")] = i
	}
	for _, b := range bookings {
		if b.Status != models.StatusCompleted || b.CreatedAt.IsZero() {
			continue
		}
		key := b.CreatedAt.In(loc).Format("2006-01-02")
		if i, ok := index[key]; ok {
			series[i].Amount += b.Price
		}
	}
	return series
}
