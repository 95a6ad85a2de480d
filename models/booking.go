package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// BookingStatus is the lifecycle state reported by the backend. The client
// never computes transitions; it only renders what it is told.
type BookingStatus string

const (
	StatusPending    BookingStatus = "Pending"
	StatusAccepted   BookingStatus = "Accepted"
	StatusInProgress BookingStatus = "In Progress"
	StatusCompleted  BookingStatus = "Completed"
	StatusCancelled  BookingStatus = "Cancelled"
	StatusRejected   BookingStatus = "Rejected"
)

var bookingStatuses = []BookingStatus{
	StatusPending,
	StatusAccepted,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
}

// ParseBookingStatus validates a backend status string.
func ParseBookingStatus(s string) (BookingStatus, error) {
	for _, st := range bookingStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

func (s BookingStatus) Valid() bool {
	_, err := ParseBookingStatus(string(s))
	return err == nil
}

// IsActive reports Pending, Accepted and In Progress.
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusInProgress
}

func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRejected
}

func (s *BookingStatus) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("booking status: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("booking status: missing value")
	}
	st, err := ParseBookingStatus(*raw)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// Booking represents one service engagement as last reported by the backend.
type Booking struct {
	ID              string        `json:"id"`
	ServiceID       string        `json:"service_id,omitempty"`
	ServiceName     string        `json:"service_name"`
	Status          BookingStatus `json:"status"`
	Price           float64       `json:"price"`
	CreatedAt       Timestamp     `json:"created_at"`
	Rating          *float64      `json:"rating,omitempty"` // 1-5, only meaningful once Completed
	Review          string        `json:"review,omitempty"`
	ProviderID      string        `json:"provider_id,omitempty"`
	ProviderName    string        `json:"provider_name,omitempty"`
	UserName        string        `json:"user_name,omitempty"`
	HasPayment      bool          `json:"has_payment"`
	PaymentStatus   *string       `json:"payment_status,omitempty"` // only meaningful when HasPayment
	Notes           string        `json:"notes,omitempty"`
	LocationLat     *float64      `json:"location_lat,omitempty"`
	LocationLon     *float64      `json:"location_lon,omitempty"`
	CompletionNotes string        `json:"completion_notes,omitempty"`
}

// IsRated mirrors the pages' truthiness check: a zero rating counts as unrated.
func (b Booking) IsRated() bool {
	return b.Rating != nil && *b.Rating > 0
}

func (b Booking) RatingShown() bool {
	return b.Status == StatusCompleted && b.IsRated()
}

func (b Booking) PaymentStatusShown() bool {
	return b.HasPayment && b.PaymentStatus != nil && *b.PaymentStatus != ""
}

func (b Booking) HasLocation() bool {
	return b.LocationLat != nil && b.LocationLon != nil
}

func (b Booking) DisplayServiceName() string {
	if strings.TrimSpace(b.ServiceName) == "" {
		return "Service"
	}
	return b.ServiceName
}

func (b Booking) DisplayProviderName() string {
	if strings.TrimSpace(b.ProviderName) == "" {
		return "Provider"
	}
	return b.ProviderName
}

// BookingDelta is a partial booking pushed over the realtime channel. Only
// non-nil fields are applied on merge.
type BookingDelta struct {
	ID            string         `json:"id"`
	ServiceName   *string        `json:"service_name,omitempty"`
	Status        *BookingStatus `json:"status,omitempty"`
	Price         *float64       `json:"price,omitempty"`
	CreatedAt     *Timestamp     `json:"created_at,omitempty"`
	Rating        *float64       `json:"rating,omitempty"`
	ProviderID    *string        `json:"provider_id,omitempty"`
	ProviderName  *string        `json:"provider_name,omitempty"`
	UserName      *string        `json:"user_name,omitempty"`
	HasPayment    *bool          `json:"has_payment,omitempty"`
	PaymentStatus *string        `json:"payment_status,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
	LocationLat   *float64       `json:"location_lat,omitempty"`
	LocationLon   *float64       `json:"location_lon,omitempty"`
}

// Apply shallow-merges the delta into b.
func (d BookingDelta) Apply(b *Booking) {
	if d.ServiceName != nil {
		b.ServiceName = *d.ServiceName
	}
	if d.Status != nil {
		b.Status = *d.Status
	}
	if d.Price != nil {
		b.Price = *d.Price
	}
	if d.CreatedAt != nil {
		b.CreatedAt = *d.CreatedAt
	}
	if d.Rating != nil {
		v := *d.Rating
		b.Rating = &v
	}
	if d.ProviderID != nil {
		b.ProviderID = *d.ProviderID
	}
	if d.ProviderName != nil {
		b.ProviderName = *d.ProviderName
	}
	if d.UserName != nil {
		b.UserName = *d.UserName
	}
	if d.HasPayment != nil {
		b.HasPayment = *d.HasPayment
	}
	if d.PaymentStatus != nil {
		v := *d.PaymentStatus
		b.PaymentStatus = &v
	}
	if d.Notes != nil {
		b.Notes = *d.Notes
	}
	if d.LocationLat != nil {
		v := *d.LocationLat
		b.LocationLat = &v
	}
	if d.LocationLon != nil {
		v := *d.LocationLon
		b.LocationLon = &v
	}
}

// Booking materialises the delta as a new record, used when no booking with
// the delta's id is known yet.
func (d BookingDelta) Booking() Booking {
	b := Booking{ID: d.ID}
	d.Apply(&b)
	return b
}

// Completion holds the provider's proof of work for a completed booking.
type Completion struct {
	BookingID       string    `json:"booking_id"`
	CompletionNotes string    `json:"completion_notes"`
	CompletedAt     Timestamp `json:"completed_at"`
	Images          []string  `json:"images"`
}

// FileUpload is an in-memory file destined for a multipart form.
type FileUpload struct {
	Name string
	Data []byte
}
