package api

import (
	"context"
	"net/http"
	"strings"

	"hoofix/models"
)

// ChatMessages returns the thread of a booking, oldest first.
func (c *Client) ChatMessages(ctx context.Context, bookingID string) ([]models.ChatMessage, error) {
	var out struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if err := c.getJSON(ctx, "load chat", "/api/chat/"+escape(bookingID)+"/messages", &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

func (c *Client) SendChatMessage(ctx context.Context, bookingID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return invalid("send chat message", "message is empty")
	}
	payload := map[string]string{"booking_id": bookingID, "message": text, "message_type": "text"}
	return c.sendJSON(ctx, "send chat message", http.MethodPost, "/api/chat/send", payload, nil)
}
