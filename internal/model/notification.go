package model

import "time"

// Notification types.
const (
	NotificationWelcome   = "welcome"
	NotificationOrder     = "order"
	NotificationPromotion = "promotion"
)

// Notification is a per-user message shown on the notifications screen.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
