package model

import "time"

// User is the account record returned by login and registration.
// It doubles as the session payload the client threads between screens.
type User struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	AuthProvider string    `json:"auth_provider,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	IsMerchant   bool      `json:"is_merchant"`
	Token        string    `json:"token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
