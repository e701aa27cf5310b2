package models

import "time"

// TokenValidation is the payload of the validate endpoint. Username and
// ExpiresAt are only set when Valid is true.
type TokenValidation struct {
	Valid     bool   `json:"valid"`
	Username  string `json:"username,omitempty"`
	ExpiresAt *int64 `json:"expiresAt,omitempty"`
}

// TokenRefresh is the payload of the refresh endpoint.
type TokenRefresh struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// Expiry returns ExpiresAt as a time.Time.
func (t *TokenRefresh) Expiry() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}

// Availability is the payload of the check-username, check-phone and
// check-email endpoints. Value holds whichever field was checked.
type Availability struct {
	Value     string
	Available bool
	Message   string
}
