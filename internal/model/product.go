package model

import "time"

// Product listing statuses.
const (
	ProductActive  = "ACTIVE"
	ProductSold    = "SOLD"
	ProductExpired = "EXPIRED"
)

// Product is a surplus-food listing posted by a merchant.
type Product struct {
	ID            string    `json:"id"`
	MerchantID    string    `json:"merchant_id"`
	Name          string    `json:"name"`
	OriginalPrice float64   `json:"original_price"`
	CurrentPrice  float64   `json:"current_price"`
	Status        string    `json:"status"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	ConsumerID    string    `json:"consumer_id,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// Expired reports whether the listing is past its expiry at the given time.
func (p *Product) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
