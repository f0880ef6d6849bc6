package dto

import "time"

// URLResponse carries a signed object URL.
type URLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}
