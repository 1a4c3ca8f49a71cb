package model

import "time"

// SessionData contains the data stored with a session token.
type SessionData struct {
	UserID       string    `json:"user_id"`
	AuthProvider string    `json:"auth_provider"`
	IsMerchant   bool      `json:"is_merchant"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}
