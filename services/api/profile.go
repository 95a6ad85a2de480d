package api

import (
	"context"
	"net/http"
	"strings"

	"hoofix/models"
)

const minPasswordLength = 8

func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	var out models.Profile
	err := c.getJSON(ctx, "load profile", "/api/user/profile", &out)
	return out, err
}

// Me returns the current user including the provider profile, if any.
func (c *Client) Me(ctx context.Context) (models.Profile, error) {
	var out models.Profile
	err := c.getJSON(ctx, "load me", "/me", &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	if strings.TrimSpace(update.Name) == "" {
		return invalid("update profile", "name is required")
	}
	return c.sendJSON(ctx, "update profile", http.MethodPost, "/profile/update", update, nil)
}

func (c *Client) ChangePassword(ctx context.Context, current, next, confirm string) error {
	switch {
	case current == "":
		return invalid("change password", "current password is required")
	case len(next) < minPasswordLength:
		return invalid("change password", "new password must be at least 8 characters")
	case next != confirm:
		return invalid("change password", "passwords do not match")
	}
	payload := map[string]string{"current_password": current, "new_password": next}
	return c.sendJSON(ctx, "change password", http.MethodPost, "/profile/password", payload, nil)
}

func (c *Client) UploadAvatar(ctx context.Context, avatar models.FileUpload) error {
	if len(avatar.Data) == 0 {
		return invalid("upload avatar", "avatar file is empty")
	}
	return c.postMultipart(ctx, "upload avatar", "/profile/avatar", nil, []formFile{{field: "avatar", file: avatar}}, nil)
}

func (c *Client) Preferences(ctx context.Context) (models.Preferences, error) {
	out := models.Preferences{}
	err := c.getJSON(ctx, "load preferences", "/profile/preferences", &out)
	return out, err
}

func (c *Client) SavePreferences(ctx context.Context, prefs models.Preferences) error {
	return c.sendJSON(ctx, "save preferences", http.MethodPost, "/profile/preferences", prefs, nil)
}

// ServiceCatalog lists every service the marketplace offers. Public.
func (c *Client) ServiceCatalog(ctx context.Context) ([]models.ServiceOffering, error) {
	var out []models.ServiceOffering
	if err := c.do(ctx, call{op: "load services", method: http.MethodGet, path: "/services", public: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Logout invalidates the session server-side. Callers clear the local
// credential whatever the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.sendJSON(ctx, "logout", http.MethodPost, "/logout", nil, nil)
}
