package repository

import (
	"context"
	"time"

	"foodrescue-platform/internal/model"
)

// UserRepository defines account data access methods.
type UserRepository interface {
	// GetUserByProvider finds a user by (auth_provider, auth_id).
	GetUserByProvider(ctx context.Context, provider, authID string) (*model.User, error)

	// GetUserByPhone finds a user registered with the given phone number.
	GetUserByPhone(ctx context.Context, phone string) (*model.User, error)

	// GetUserByID finds a user by its identifier.
	GetUserByID(ctx context.Context, userID string) (*model.User, error)

	// CreateUser inserts a new user. authID is empty for phone registrations.
	CreateUser(ctx context.Context, u *model.User, authID string) error

	// SetMerchant flips the merchant flag on a user.
	SetMerchant(ctx context.Context, userID string, isMerchant bool) error
}

// ProductRepository defines listing data access methods.
type ProductRepository interface {
	// ListProducts returns all listings, newest first.
	ListProducts(ctx context.Context) ([]model.Product, error)

	// GetProductByID finds a listing by its identifier.
	GetProductByID(ctx context.Context, id string) (*model.Product, error)

	// CreateProduct inserts a new listing.
	CreateProduct(ctx context.Context, p *model.Product) error

	// MarkSold transitions an ACTIVE, unexpired listing to SOLD.
	// Returns false when the listing was not eligible.
	MarkSold(ctx context.Context, id, consumerID string, now time.Time) (bool, error)

	// ExpireBefore marks ACTIVE listings past their expiry as EXPIRED.
	ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// MerchantRepository defines merchant profile data access methods.
type MerchantRepository interface {
	// UpsertProfile inserts or replaces a merchant profile.
	UpsertProfile(ctx context.Context, p *model.MerchantProfile) error

	// GetProfile finds a profile by the owning user's identifier.
	GetProfile(ctx context.Context, userID string) (*model.MerchantProfile, error)

	// SearchProfiles returns profiles whose shop name matches the query.
	SearchProfiles(ctx context.Context, query string) ([]model.MerchantProfile, error)
}

// NotificationRepository defines notification data access methods.
type NotificationRepository interface {
	// CreateNotification inserts a notification.
	CreateNotification(ctx context.Context, n *model.Notification) error

	// ListNotifications returns a user's notifications (newest first) and
	// the count of unread ones.
	ListNotifications(ctx context.Context, userID string) ([]model.Notification, int, error)

	// MarkRead flags a notification as read. Marking an already-read
	// notification is a no-op.
	MarkRead(ctx context.Context, id string) error

	// DeleteReadBefore removes read notifications older than the cutoff.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store bundles the marketplace repositories one backend implements.
type Store interface {
	UserRepository
	ProductRepository
	MerchantRepository
	NotificationRepository

	// Close closes the store connection.
	Close() error
}

// CommunityRepository defines review and favorite data access methods.
type CommunityRepository interface {
	// ListReviews returns a merchant's reviews, newest first.
	ListReviews(ctx context.Context, merchantID string) ([]model.Review, error)

	// AddReview inserts a review.
	AddReview(ctx context.Context, r *model.Review) error

	// RatingSummary aggregates a merchant's reviews.
	RatingSummary(ctx context.Context, merchantID string) (*model.RatingSummary, error)

	// IsFavorite reports whether the user has favorited the merchant.
	IsFavorite(ctx context.Context, userID, merchantID string) (bool, error)

	// ToggleFavorite flips the favorite state and returns the new state.
	ToggleFavorite(ctx context.Context, userID, merchantID string) (bool, error)

	// FavoriteMerchantIDs returns the merchants a user has favorited.
	FavoriteMerchantIDs(ctx context.Context, userID string) ([]string, error)

	// FavoritedBy returns the users who favorited a merchant.
	FavoritedBy(ctx context.Context, merchantID string) ([]string, error)
}
