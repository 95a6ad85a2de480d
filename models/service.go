package models

// ServiceOffering is one entry of the public service catalog.
type ServiceOffering struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	BasePrice   float64 `json:"base_price,omitempty"`
	Category    string  `json:"category,omitempty"`
}

type SkillRequest struct {
	ServiceName     string  `json:"service_name"`
	HourlyRate      float64 `json:"hourly_rate,omitempty"`
	ExperienceLevel string  `json:"experience_level,omitempty"`
}

// ServiceRequest is an open customer request visible to nearby providers.
type ServiceRequest struct {
	ID          string    `json:"id"`
	ServiceName string    `json:"service_name"`
	UserName    string    `json:"user_name,omitempty"`
	Description string    `json:"description,omitempty"`
	Budget      *float64  `json:"budget,omitempty"`
	Address     string    `json:"address,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}
