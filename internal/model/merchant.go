package model

import "time"

// MerchantProfile is the shop profile submitted during merchant setup.
type MerchantProfile struct {
	UserID             string    `json:"user_id"`
	ShopName           string    `json:"shop_name"`
	Address            string    `json:"address"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	Phone              string    `json:"phone"`
	Email              string    `json:"email,omitempty"`
	BusinessHoursOpen  string    `json:"business_hours_open,omitempty"`
	BusinessHoursClose string    `json:"business_hours_close,omitempty"`
	Category           string    `json:"category,omitempty"`
	Description        string    `json:"description,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}
