package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"foodrescue-platform/internal/model"
)

// MySQLCommunityRepository implements CommunityRepository using MySQL.
// Reviews and favorites live in a shared community database; when it is
// unreachable the server runs without the community routes.
type MySQLCommunityRepository struct {
	db *sql.DB
}

// NewMySQLCommunityRepository creates a new MySQL community repository.
func NewMySQLCommunityRepository(db *sql.DB) (*MySQLCommunityRepository, error) {
	if err := createCommunityTables(db); err != nil {
		return nil, fmt.Errorf("failed to create community tables: %w", err)
	}
	log.Printf("[MySQLCommunityRepository] Initialized")
	return &MySQLCommunityRepository{db: db}, nil
}

func createCommunityTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS reviews (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			merchant_id VARCHAR(64) NOT NULL,
			user_id VARCHAR(64) NOT NULL,
			rating INT NOT NULL,
			comment TEXT,
			created_at DATETIME NOT NULL,
			INDEX idx_reviews_merchant (merchant_id)
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			user_id VARCHAR(64) NOT NULL,
			merchant_id VARCHAR(64) NOT NULL,
			created_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, merchant_id),
			INDEX idx_favorites_merchant (merchant_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ListReviews returns a merchant's reviews, newest first.
func (r *MySQLCommunityRepository) ListReviews(ctx context.Context, merchantID string) ([]model.Review, error) {
	query := `SELECT id, merchant_id, user_id, rating, COALESCE(comment, ''), created_at
		FROM reviews WHERE merchant_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]model.Review, 0)
	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.MerchantID, &rev.UserID, &rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// AddReview inserts a review.
func (r *MySQLCommunityRepository) AddReview(ctx context.Context, rev *model.Review) error {
	query := `INSERT INTO reviews (merchant_id, user_id, rating, comment, created_at) VALUES (?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query, rev.MerchantID, rev.UserID, rev.Rating, rev.Comment, rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add review: %w", err)
	}
	rev.ID, _ = res.LastInsertId()
	return nil
}

// RatingSummary aggregates a merchant's reviews.
func (r *MySQLCommunityRepository) RatingSummary(ctx context.Context, merchantID string) (*model.RatingSummary, error) {
	query := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE merchant_id = ?`

	var summary model.RatingSummary
	err := r.db.QueryRowContext(ctx, query, merchantID).Scan(&summary.AverageRating, &summary.TotalReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return &summary, nil
}

// IsFavorite reports whether the user has favorited the merchant.
func (r *MySQLCommunityRepository) IsFavorite(ctx context.Context, userID, merchantID string) (bool, error) {
	query := `SELECT COUNT(*) FROM favorites WHERE user_id = ? AND merchant_id = ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, merchantID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return count > 0, nil
}

// ToggleFavorite flips the favorite state and returns the new state.
func (r *MySQLCommunityRepository) ToggleFavorite(ctx context.Context, userID, merchantID string) (bool, error) {
	isFav, err := r.IsFavorite(ctx, userID, merchantID)
	if err != nil {
		return false, err
	}

	if isFav {
		_, err = r.db.ExecContext(ctx,
			`DELETE FROM favorites WHERE user_id = ? AND merchant_id = ?`, userID, merchantID)
		if err != nil {
			return false, fmt.Errorf("failed to remove favorite: %w", err)
		}
		return false, nil
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, merchant_id, created_at) VALUES (?, ?, NOW())`, userID, merchantID)
	if err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

// FavoriteMerchantIDs returns the merchants a user has favorited.
func (r *MySQLCommunityRepository) FavoriteMerchantIDs(ctx context.Context, userID string) ([]string, error) {
	return r.listIDs(ctx,
		`SELECT merchant_id FROM favorites WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

// FavoritedBy returns the users who favorited a merchant.
func (r *MySQLCommunityRepository) FavoritedBy(ctx context.Context, merchantID string) ([]string, error) {
	return r.listIDs(ctx,
		`SELECT user_id FROM favorites WHERE merchant_id = ?`, merchantID)
}

func (r *MySQLCommunityRepository) listIDs(ctx context.Context, query string, arg string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Ensure MySQLCommunityRepository implements CommunityRepository
var _ CommunityRepository = (*MySQLCommunityRepository)(nil)
