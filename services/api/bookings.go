package api

import (
	"context"
	"net/http"
	"strings"

	"hoofix/models"
)

// CustomerBookings lists the logged-in customer's bookings, newest first.
func (c *Client) CustomerBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.getJSON(ctx, "load bookings", "/bookings/user", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProviderBookings lists jobs assigned to the logged-in provider.
func (c *Client) ProviderBookings(ctx context.Context) ([]models.Booking, error) {
	var out []models.Booking
	if err := c.getJSON(ctx, "load provider bookings", "/bookings/provider", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Completion(ctx context.Context, bookingID string) (models.Completion, error) {
	var out models.Completion
	err := c.getJSON(ctx, "load completion", "/completion/"+escape(bookingID), &out)
	return out, err
}

// RateBooking submits a 1-5 star rating. Out of range ratings never reach
// the backend.
func (c *Client) RateBooking(ctx context.Context, bookingID string, rating int, review string) error {
	if err := ValidateRating(rating); err != nil {
		return err
	}
	payload := map[string]interface{}{"rating": rating, "review": review}
	return c.sendJSON(ctx, "rate booking", http.MethodPost, "/bookings/"+escape(bookingID)+"/rate", payload, nil)
}

func (c *Client) AcceptBooking(ctx context.Context, bookingID string) error {
	return c.sendJSON(ctx, "accept booking", http.MethodPost, "/bookings/accept", map[string]string{"booking_id": bookingID}, nil)
}

func (c *Client) RejectBooking(ctx context.Context, bookingID string) error {
	return c.sendJSON(ctx, "reject booking", http.MethodPost, "/bookings/reject", map[string]string{"booking_id": bookingID}, nil)
}

// UpdateBookingStatus asks the backend to move a job to status. The backend
// owns the transition rules; the client only sends the request.
func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID string, status models.BookingStatus) error {
	if !status.Valid() {
		return invalid("update booking status", "unknown status "+string(status))
	}
	payload := map[string]string{"status": string(status)}
	return c.sendJSON(ctx, "update booking status", http.MethodPut, "/bookings/"+escape(bookingID)+"/status", payload, nil)
}

// UploadCompletion sends the completion notes and photos of a finished job.
func (c *Client) UploadCompletion(ctx context.Context, bookingID, notes string, images []models.FileUpload) error {
	if strings.TrimSpace(notes) == "" || len(images) == 0 {
		return invalid("upload completion", "completion notes and at least one image are required")
	}
	files := make([]formFile, 0, len(images))
	for _, img := range images {
		files = append(files, formFile{field: "images", file: img})
	}
	fields := map[string]string{"booking_id": bookingID, "completion_notes": notes}
	return c.postMultipart(ctx, "upload completion", "/completion/upload", fields, files, nil)
}
