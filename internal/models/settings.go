package models

import "time"

// CorsConfig holds the CORS settings stored in the database
type CorsConfig struct {
	ConfigKey        string    `json:"config_key"`
	AllowedOrigins   string    `json:"allowed_origins"` // Comma-separated
	AllowCredentials bool      `json:"allow_credentials"`
	MaxAge           int       `json:"max_age"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RatelimitConfig holds the limiter rate in ulule format (e.g. "5-S", "100-M")
type RatelimitConfig struct {
	ConfigKey string    `json:"config_key"`
	Rate      string    `json:"rate"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
