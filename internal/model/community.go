package model

import "time"

// Review is a consumer rating of a merchant.
type Review struct {
	ID         int64     `json:"id"`
	MerchantID string    `json:"merchant_id"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingSummary aggregates a merchant's reviews.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalReviews  int     `json:"total_reviews"`
}

// FavoriteMerchant is one entry on a user's favorites list, enriched with
// the merchant's profile fields the list screen renders.
type FavoriteMerchant struct {
	MerchantID string `json:"merchant_id"`
	ShopName   string `json:"shop_name"`
	Address    string `json:"address,omitempty"`
	Category   string `json:"category,omitempty"`
}
