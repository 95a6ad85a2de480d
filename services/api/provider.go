package api

import (
	"context"
	"net/http"
	"strings"

	"hoofix/models"
)

// SetAvailability publishes whether the provider takes new jobs.
func (c *Client) SetAvailability(ctx context.Context, available bool) error {
	return c.sendJSON(ctx, "set availability", http.MethodPost, "/api/provider/availability", map[string]bool{"availability": available}, nil)
}

func (c *Client) AddSkill(ctx context.Context, req models.SkillRequest) error {
	req.ServiceName = strings.TrimSpace(req.ServiceName)
	if req.ServiceName == "" {
		return invalid("add skill", "service name is required")
	}
	if req.ExperienceLevel == "" {
		req.ExperienceLevel = "intermediate"
	}
	return c.sendJSON(ctx, "add skill", http.MethodPost, "/providers/add-service", req, nil)
}

func (c *Client) RemoveSkill(ctx context.Context, serviceName string) error {
	serviceName = strings.TrimSpace(serviceName)
	if serviceName == "" {
		return invalid("remove skill", "service name is required")
	}
	return c.sendJSON(ctx, "remove skill", http.MethodPost, "/providers/remove-service", map[string]string{"service_name": serviceName}, nil)
}

// SetDailyRates saves per-service day rates. Non-positive rates are dropped;
// at least one must remain.
func (c *Client) SetDailyRates(ctx context.Context, rates map[string]float64) error {
	clean := make(map[string]float64, len(rates))
	for svc, rate := range rates {
		if rate > 0 {
			clean[svc] = rate
		}
	}
	if len(clean) == 0 {
		return invalid("set daily rates", "at least one positive rate is required")
	}
	return c.sendJSON(ctx, "set daily rates", http.MethodPost, "/api/provider/daily-rates", map[string]interface{}{"daily_rates": clean}, nil)
}

func (c *Client) ProviderServiceRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	var out struct {
		ServiceRequests []models.ServiceRequest `json:"service_requests"`
	}
	if err := c.getJSON(ctx, "load service requests", "/api/provider/service-requests", &out); err != nil {
		return nil, err
	}
	return out.ServiceRequests, nil
}
