package api

import (
	"context"
	"net/http"
	"strings"

	"hoofix/models"
)

func (c *Client) Addresses(ctx context.Context) ([]models.Address, error) {
	var out []models.Address
	if err := c.getJSON(ctx, "load addresses", "/profile/addresses", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddAddress(ctx context.Context, addr models.Address) error {
	if strings.TrimSpace(addr.Label) == "" || strings.TrimSpace(addr.Address) == "" {
		return invalid("add address", "label and address are required")
	}
	return c.sendJSON(ctx, "add address", http.MethodPost, "/profile/addresses", addr, nil)
}

func (c *Client) DeleteAddress(ctx context.Context, uid string) error {
	return c.do(ctx, call{op: "delete address", method: http.MethodDelete, path: "/profile/addresses/" + escape(uid)}, nil)
}

func (c *Client) SetDefaultAddress(ctx context.Context, uid string) error {
	return c.sendJSON(ctx, "set default address", http.MethodPost, "/profile/addresses/"+escape(uid)+"/default", nil, nil)
}
