package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Cache     CacheConfig
	Store     StoreConfig
	Community CommunityDBConfig
	Client    ClientConfig
	Providers ProvidersConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"foodrescue-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// CacheConfig holds cache settings (session tokens and SMS codes).
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"`
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StoreConfig holds marketplace store settings.
type StoreConfig struct {
	Type string `envconfig:"STORE_DB_TYPE" default:"sqlite"` // sqlite or postgres
	Path string `envconfig:"STORE_DB_PATH" default:"./data/foodrescue.db"`
	// PostgreSQL settings
	Host     string `envconfig:"STORE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_DB_PORT" default:"5432"`
	Name     string `envconfig:"STORE_DB_NAME" default:"foodrescue"`
	User     string `envconfig:"STORE_DB_USER" default:"postgres"`
	Password string `envconfig:"STORE_DB_PASS" default:""`
	SSLMode  string `envconfig:"STORE_DB_SSLMODE" default:"disable"`
}

// CommunityDBConfig holds MySQL connection settings for reviews/favorites.
type CommunityDBConfig struct {
	Host     string `envconfig:"COMMUNITY_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"COMMUNITY_DB_PORT" default:"3306"`
	Name     string `envconfig:"COMMUNITY_DB_NAME" default:"foodrescue"`
	User     string `envconfig:"COMMUNITY_DB_USER" default:"root"`
	Password string `envconfig:"COMMUNITY_DB_PASS" default:""`
}

// ClientConfig holds settings for the client application.
type ClientConfig struct {
	APIURL   string        `envconfig:"API_URL" default:"http://localhost:8080"`
	Language string        `envconfig:"APP_LANGUAGE" default:"en"`
	Timeout  time.Duration `envconfig:"CLIENT_TIMEOUT" default:"15s"`
}

// ProvidersConfig holds third-party auth provider credentials.
// Empty values gate the corresponding provider into simulated login.
type ProvidersConfig struct {
	GoogleWebClientID      string `envconfig:"GOOGLE_WEB_CLIENT_ID" default:""`
	FacebookAppID          string `envconfig:"FACEBOOK_APP_ID" default:""`
	WalletConnectProjectID string `envconfig:"WALLET_CONNECT_PROJECT_ID" default:""`
	DemoMode               bool   `envconfig:"AUTH_DEMO_MODE" default:"false"`
}

// Configured reports whether the given provider has real credentials.
func (p *ProvidersConfig) Configured(provider string) bool {
	switch provider {
	case "google":
		return p.GoogleWebClientID != ""
	case "facebook":
		return p.FacebookAppID != ""
	case "walletconnect":
		return p.WalletConnectProjectID != ""
	default:
		return false
	}
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *StoreConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.User, s.Password, s.Host, s.Port, s.Name, s.SSLMode)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// DSN returns the MySQL data source name for the community database.
func (d *CommunityDBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
