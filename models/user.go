package models

import "strings"

const (
	RoleUser     = "user"
	RoleProvider = "provider"
)

// Identity is what the client can learn from its bearer credential without
// asking the server.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (i Identity) IsProvider() bool {
	return i.Role == RoleProvider
}

// Initials returns up to two initials for the avatar seed.
func (i Identity) Initials() string {
	var out []rune
	for _, part := range strings.Fields(i.Name) {
		out = append(out, []rune(part)[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

type ProviderProfile struct {
	ID           string             `json:"id"`
	Skills       []string           `json:"skills"`
	Availability *bool              `json:"availability,omitempty"`
	DailyRates   map[string]float64 `json:"daily_rates,omitempty"`
}

// Profile is the current user record returned by /me and /api/user/profile.
type Profile struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone,omitempty"`
	Role            string           `json:"role"`
	Rating          float64          `json:"rating"`
	Credits         float64          `json:"credits"`
	AvatarURL       string           `json:"avatar_url,omitempty"`
	CreatedAt       Timestamp        `json:"created_at"`
	ProviderProfile *ProviderProfile `json:"provider_profile,omitempty"`
}

type ProfileUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Preferences are notification toggles keyed by channel.
type Preferences map[string]bool

type Address struct {
	UID       string   `json:"uid"`
	Label     string   `json:"label"`
	Address   string   `json:"address"`
	IsDefault bool     `json:"is_default"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
}
