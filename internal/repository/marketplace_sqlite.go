package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"foodrescue-platform/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteStore implements Store using SQLite.
// Thread-safe with WAL mode for high-concurrency reads.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite marketplace store.
// dbPath is the path to the SQLite database file (e.g., "./data/foodrescue.db")
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createSQLiteTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteStore] Initialized with database: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

func createSQLiteTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		auth_provider TEXT NOT NULL DEFAULT '',
		auth_id TEXT NOT NULL DEFAULT '',
		display_name TEXT NOT NULL DEFAULT '',
		is_merchant INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_provider ON users(auth_provider, auth_id) WHERE auth_id != '';
	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_phone ON users(phone) WHERE phone != '';

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		original_price REAL NOT NULL,
		current_price REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		latitude REAL NOT NULL DEFAULT 0,
		longitude REAL NOT NULL DEFAULT 0,
		consumer_id TEXT NOT NULL DEFAULT '',
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_products_status ON products(status);
	CREATE INDEX IF NOT EXISTS idx_products_merchant ON products(merchant_id);

	CREATE TABLE IF NOT EXISTS merchant_profiles (
		user_id TEXT PRIMARY KEY,
		shop_name TEXT NOT NULL,
		address TEXT NOT NULL,
		latitude REAL NOT NULL DEFAULT 0,
		longitude REAL NOT NULL DEFAULT 0,
		phone TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		business_hours_open TEXT NOT NULL DEFAULT '',
		business_hours_close TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL,
		type TEXT NOT NULL,
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, is_read);
	`
	_, err := db.Exec(query)
	return err
}

const userColumns = `user_id, email, phone, auth_provider, display_name, is_merchant, created_at`

func scanUser(scan func(dest ...interface{}) error) (*model.User, error) {
	var u model.User
	err := scan(&u.UserID, &u.Email, &u.Phone, &u.AuthProvider, &u.DisplayName, &u.IsMerchant, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLiteStore) getUser(ctx context.Context, where string, args ...interface{}) (*model.User, error) {
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
func (s *SQLiteStore) GetUserByProvider(ctx context.Context, provider, authID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getUser(ctx, `auth_provider = ? AND auth_id = ?`, provider, authID)
}

// GetUserByPhone finds a user registered with the given phone number.
func (s *SQLiteStore) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getUser(ctx, `phone = ?`, phone)
}

// GetUserByID finds a user by its identifier.
func (s *SQLiteStore) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getUser(ctx, `user_id = ?`, userID)
}

// CreateUser inserts a new user.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *model.User, authID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO users (user_id, email, phone, auth_provider, auth_id, display_name, is_merchant, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		u.UserID, u.Email, u.Phone, u.AuthProvider, authID, u.DisplayName, u.IsMerchant, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SetMerchant flips the merchant flag on a user.
func (s *SQLiteStore) SetMerchant(ctx context.Context, userID string, isMerchant bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `UPDATE users SET is_merchant = ? WHERE user_id = ?`, isMerchant, userID)
	if err != nil {
		return fmt.Errorf("failed to set merchant flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

const productColumns = `id, merchant_id, name, original_price, current_price, status, latitude, longitude, consumer_id, expires_at, created_at`

func scanProduct(scan func(dest ...interface{}) error) (*model.Product, error) {
	var p model.Product
	err := scan(&p.ID, &p.MerchantID, &p.Name, &p.OriginalPrice, &p.CurrentPrice,
		&p.Status, &p.Latitude, &p.Longitude, &p.ConsumerID, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns all listings, newest first.
func (s *SQLiteStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

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
func (s *SQLiteStore) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
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
func (s *SQLiteStore) CreateProduct(ctx context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.MerchantID, p.Name, p.OriginalPrice, p.CurrentPrice,
		p.Status, p.Latitude, p.Longitude, p.ConsumerID, p.ExpiresAt, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// MarkSold transitions an ACTIVE, unexpired listing to SOLD.
func (s *SQLiteStore) MarkSold(ctx context.Context, id, consumerID string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		UPDATE products SET status = ?, consumer_id = ?
		WHERE id = ? AND status = ? AND expires_at > ?`

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
func (s *SQLiteStore) ExpireBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `UPDATE products SET status = ? WHERE status = ? AND expires_at < ?`
	res, err := s.db.ExecContext(ctx, query, model.ProductExpired, model.ProductActive, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire products: %w", err)
	}
	return res.RowsAffected()
}

const profileColumns = `user_id, shop_name, address, latitude, longitude, phone, email, business_hours_open, business_hours_close, category, description, created_at`

func scanProfile(scan func(dest ...interface{}) error) (*model.MerchantProfile, error) {
	var p model.MerchantProfile
	err := scan(&p.UserID, &p.ShopName, &p.Address, &p.Latitude, &p.Longitude,
		&p.Phone, &p.Email, &p.BusinessHoursOpen, &p.BusinessHoursClose,
		&p.Category, &p.Description, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile inserts or replaces a merchant profile.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, p *model.MerchantProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO merchant_profiles
			(user_id, shop_name, address, latitude, longitude, phone, email,
			 business_hours_open, business_hours_close, category, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			shop_name = excluded.shop_name,
			address = excluded.address,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			phone = excluded.phone,
			email = excluded.email,
			business_hours_open = excluded.business_hours_open,
			business_hours_close = excluded.business_hours_close,
			category = excluded.category,
			description = excluded.description`

	_, err := s.db.ExecContext(ctx, query,
		p.UserID, p.ShopName, p.Address, p.Latitude, p.Longitude, p.Phone, p.Email,
		p.BusinessHoursOpen, p.BusinessHoursClose, p.Category, p.Description, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert merchant profile: %w", err)
	}
	return nil
}

// GetProfile finds a profile by the owning user's identifier.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*model.MerchantProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT ` + profileColumns + ` FROM merchant_profiles WHERE user_id = ?`
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
func (s *SQLiteStore) SearchProfiles(ctx context.Context, query string) ([]model.MerchantProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stmt := `SELECT ` + profileColumns + ` FROM merchant_profiles
		WHERE shop_name LIKE ? ORDER BY shop_name LIMIT 50`

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
func (s *SQLiteStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO notifications (id, user_id, title, body, type, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, n.ID, n.UserID, n.Title, n.Body, n.Type, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// ListNotifications returns a user's notifications and the unread count.
func (s *SQLiteStore) ListNotifications(ctx context.Context, userID string) ([]model.Notification, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, user_id, title, body, type, is_read, created_at
		FROM notifications WHERE user_id = ? ORDER BY created_at DESC`

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
func (s *SQLiteStore) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// DeleteReadBefore removes read notifications older than the cutoff.
func (s *SQLiteStore) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE is_read = 1 AND created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)
