package models

import "strings"

type ChatMessage struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	Message     string    `json:"message"`
	Content     string    `json:"content,omitempty"`
	MessageType string    `json:"message_type,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Text returns the message body; older payloads carry it under "content".
func (m ChatMessage) Text() string {
	if strings.TrimSpace(m.Message) != "" {
		return m.Message
	}
	return m.Content
}

type IncomingKind string

const (
	IncomingBooking IncomingKind = "booking"
	IncomingChat    IncomingKind = "chat"
)

// IncomingRequest is an entry in the provider's inbox: either a pending
// booking awaiting a decision or the latest chat message on an open job.
type IncomingRequest struct {
	Kind        IncomingKind `json:"kind"`
	Booking     Booking      `json:"booking"`
	LastMessage *ChatMessage `json:"last_message,omitempty"`
}

func (r IncomingRequest) ID() string {
	return string(r.Kind) + ":" + r.Booking.ID
}
