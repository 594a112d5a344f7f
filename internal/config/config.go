package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	GRPC     GRPCConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
	Log      LogConfig
	Polling  PollingConfig
	Delivery DeliveryConfig
	Ledger   LedgerConfig
	Returns  ReturnsConfig
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// GRPCConfig contains gRPC server settings.
type GRPCConfig struct {
	Address string // gRPC server listen address (e.g., ":50051")
}

// HTTPConfig contains settings of the customer-app HTTP gateway.
type HTTPConfig struct {
	Address string // empty disables the gateway
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string // JWT signing secret
}

// LogConfig selects the zap log level.
type LogConfig struct {
	Level string
}

// PollingConfig holds the client poll cadence handed out to apps and used by the tracker CLI.
type PollingConfig struct {
	OrderInterval    time.Duration
	LocationInterval time.Duration
	RiderInterval    time.Duration
}

// DeliveryConfig drives live tracking and new-order visibility.
type DeliveryConfig struct {
	LocationFreshness time.Duration // samples older than this are not trusted
	RiderSpeedKmh     float64       // assumed average speed for ETA
	RadiusKm          float64       // riders see new orders whose shop is within this radius
}

// LedgerConfig contains COD settlement rules.
type LedgerConfig struct {
	PayoutBatchSize int
}

// ReturnsConfig contains return window rules.
type ReturnsConfig struct {
	Window time.Duration
}

// Load loads configuration from environment variables with sensible defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	cfg, err := load("")
	if err != nil {
		return nil, err
	}

	// Validate critical settings
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set; required for production")
	}
	return cfg, nil
}

// LoadWithDefaults is like Load but uses a safe default for JWT_SECRET in development.
// WARNING: Only use in development! Use Load() in production.
func LoadWithDefaults() (*Config, error) {
	return load("dev-secret-change-me")
}

func load(defaultSecret string) (*Config, error) {
	_ = godotenv.Load()

	orderPoll, err := getEnvInt("ORDER_POLL_INTERVAL_MS", 15000)
	if err != nil {
		return nil, err
	}
	locationPoll, err := getEnvInt("LOCATION_POLL_INTERVAL_MS", 10000)
	if err != nil {
		return nil, err
	}
	riderPoll, err := getEnvInt("RIDER_POLL_INTERVAL_MS", 8000)
	if err != nil {
		return nil, err
	}
	freshness, err := getEnvInt("LOCATION_FRESHNESS_SEC", 60)
	if err != nil {
		return nil, err
	}
	batch, err := getEnvInt("PAYOUT_BATCH_SIZE", 20)
	if err != nil {
		return nil, err
	}
	windowDays, err := getEnvInt("RETURN_WINDOW_DAYS", 7)
	if err != nil {
		return nil, err
	}
	speed, err := getEnvFloat("RIDER_SPEED_KMH", 20)
	if err != nil {
		return nil, err
	}
	radius, err := getEnvFloat("DELIVERY_RADIUS_KM", 15)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "app.db"),
		},
		GRPC: GRPCConfig{
			Address: getEnv("GRPC_ADDRESS", ":50051"),
		},
		HTTP: HTTPConfig{
			Address: getEnv("HTTP_ADDRESS", ":8080"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", defaultSecret),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Polling: PollingConfig{
			OrderInterval:    time.Duration(orderPoll) * time.Millisecond,
			LocationInterval: time.Duration(locationPoll) * time.Millisecond,
			RiderInterval:    time.Duration(riderPoll) * time.Millisecond,
		},
		Delivery: DeliveryConfig{
			LocationFreshness: time.Duration(freshness) * time.Second,
			RiderSpeedKmh:     speed,
			RadiusKm:          radius,
		},
		Ledger: LedgerConfig{
			PayoutBatchSize: batch,
		},
		Returns: ReturnsConfig{
			Window: time.Duration(windowDays) * 24 * time.Hour,
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Polling.OrderInterval <= 0 || c.Polling.LocationInterval <= 0 || c.Polling.RiderInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	if c.Delivery.LocationFreshness <= 0 {
		return fmt.Errorf("LOCATION_FRESHNESS_SEC must be positive")
	}
	if c.Delivery.RiderSpeedKmh <= 0 {
		return fmt.Errorf("RIDER_SPEED_KMH must be positive")
	}
	if c.Ledger.PayoutBatchSize <= 0 {
		return fmt.Errorf("PAYOUT_BATCH_SIZE must be positive")
	}
	if c.Returns.Window <= 0 {
		return fmt.Errorf("RETURN_WINDOW_DAYS must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, err)
		}
		return f, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{DB: %s, gRPC: %s, HTTP: %s, Log: %s, Batch: %d, Auth: *** (masked) ***}",
		c.Database.Path, c.GRPC.Address, c.HTTP.Address, c.Log.Level, c.Ledger.PayoutBatchSize)
}
