package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"foodrescue-platform/internal/model"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL marketplace store.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	if err := createPostgresTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[PostgresStore] Initialized")
	return &PostgresStore{db: db}, nil
}

func createPostgresTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		auth_provider TEXT NOT NULL DEFAULT '',
		auth_id TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		is_merchant BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_provider ON users(auth_provider, auth_id) WHERE auth_id != '';
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_phone ON users(phone) WHERE phone != '';

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		original_price DOUBLE PRECISION NOT NULL,
		current_price DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		consumer_id TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_products_status ON products(status);
	CREATE INDEX IF NOT EXISTS idx_products_merchant ON products(merchant_id);

	CREATE TABLE IF NOT EXISTS merchant_profiles (
		user_id TEXT PRIMARY KEY,
		shop_name TEXT NOT NULL,
		address TEXT NOT NULL,
		latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		longitude DOUBLE PRECISION NOT NULL DEFAULT 0,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		business_hours_open TEXT NOT NULL DEFAULT '',
		business_hours_close TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		type TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, is_read);
	`
	_, err := db.Exec(query)
	return err
}

func (s *PostgresStore) getUser(ctx context.Context, where string, args ...interface{}) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	u, err := scanUser(s.db.QueryRowContext(ctx, query, args...).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetUserByProvider finds a user by (auth_provider, auth_id).
func (s *PostgresStore) GetUserByProvider(ctx context.Context, provider, authID string) (*model.User, error) {
	return s.getUser(ctx, `auth_provider = $1 AND auth_id = $2`, provider, authID)
}

// GetUserByPhone finds a user registered with the given phone number.
func (s *PostgresStore) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	return s.getUser(ctx, `phone = $1`, phone)
}

// GetUserByID finds a user by its identifier.
func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	return s.getUser(ctx, `user_id = $1`, userID)
}

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, u *model.User, authID string) error {
	query := `
		INSERT INTO users (user_id, email, phone, auth_provider, auth_id, display_name, is_merchant, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		u.UserID, u.Email, u.Phone, u.AuthProvider, authID, u.DisplayName, u.IsMerchant, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SetMerchant flips the merchant flag on a user.
func (s *PostgresStore) SetMerchant(ctx context.Context, userID string, isMerchant bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_merchant = $1 WHERE user_id = $2`, isMerchant, userID)
	if err != nil {
		return fmt.Errorf("failed to set merchant flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// ListProducts returns all listings, newest first.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// GetProductByID finds a listing by its identifier.
func (s *PostgresStore) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// CreateProduct inserts a new listing.
func (s *PostgresStore) CreateProduct(ctx context.Context, p *model.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.MerchantID, p.Name, p.OriginalPrice, p.CurrentPrice,
		p.Status, p.Latitude, p.Longitude, p.ConsumerID, p.ExpiresAt, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// MarkSold transitions an ACTIVE, unexpired listing to SOLD.
func (s *PostgresStore) MarkSold(ctx context.Context, id, consumerID string, now time.Time) (bool, error) {
	query := `
		UPDATE products SET status = $1, consumer_id = $2
		WHERE id = $3 AND status = $4 AND expires_at > $5`

	res, err := s.db.ExecContext(ctx, query, model.ProductSold, consumerID, id, model.ProductActive, now)
	if err != nil {
		return false, fmt.Errorf("failed to mark product sold: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExpireBefore marks ACTIVE listings past their expiry as EXPIRED.
func (s *PostgresStore) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `UPDATE products SET status = $1 WHERE status = $2 AND expires_at < $3`
	res, err := s.db.ExecContext(ctx, query, model.ProductExpired, model.ProductActive, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire products: %w", err)
	}
	return res.RowsAffected()
}

// UpsertProfile inserts or replaces a merchant profile.
func (s *PostgresStore) UpsertProfile(ctx context.Context, p *model.MerchantProfile) error {
	query := `
		INSERT INTO merchant_profiles
			(user_id, shop_name, address, latitude, longitude, phone, email,
			 business_hours_open, business_hours_close, category, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT(user_id) DO UPDATE SET
			shop_name = EXCLUDED.shop_name,
			address = EXCLUDED.address,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			business_hours_open = EXCLUDED.business_hours_open,
			business_hours_close = EXCLUDED.business_hours_close,
			category = EXCLUDED.category,
			description = EXCLUDED.description`

	_, err := s.db.ExecContext(ctx, query,
		p.UserID, p.ShopName, p.Address, p.Latitude, p.Longitude, p.Phone, p.Email,
		p.BusinessHoursOpen, p.BusinessHoursClose, p.Category, p.Description, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert merchant profile: %w", err)
	}
	return nil
}

// GetProfile finds a profile by the owning user's identifier.
func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*model.MerchantProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM merchant_profiles WHERE user_id = $1`
	p, err := scanProfile(s.db.QueryRowContext(ctx, query, userID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get merchant profile: %w", err)
	}
	return p, nil
}

// SearchProfiles returns profiles whose shop name matches the query.
func (s *PostgresStore) SearchProfiles(ctx context.Context, query string) ([]model.MerchantProfile, error) {
	stmt := `SELECT ` + profileColumns + ` FROM merchant_profiles
		WHERE shop_name ILIKE $1 ORDER BY shop_name LIMIT 50`

	rows, err := s.db.QueryContext(ctx, stmt, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search merchants: %w", err)
	}
	defer rows.Close()

	profiles := make([]model.MerchantProfile, 0)
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan merchant profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// CreateNotification inserts a notification.
func (s *PostgresStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, body, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Body, n.Type, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns a user's notifications and the unread count.
func (s *PostgresStore) ListNotifications(ctx context.Context, userID string) ([]model.Notification, int, error) {
	query := `SELECT id, user_id, title, body, type, is_read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]model.Notification, 0)
	unread := 0
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}
		if !n.IsRead {
			unread++
		}
		notifications = append(notifications, n)
	}
	return notifications, unread, rows.Err()
}

// MarkRead flags a notification as read.
func (s *PostgresStore) MarkRead(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// DeleteReadBefore removes read notifications older than the cutoff.
func (s *PostgresStore) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE is_read = TRUE AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ensure PostgresStore implements Store
var _ Store = (*PostgresStore)(nil)
