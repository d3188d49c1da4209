package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // DASHBOARD_TIMEZONE must resolve on minimal images

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port             string
	Env              string
	JWTSecret        string
	CORSAllowedHosts []string

	DB        DatabaseConfig
	Redis     RedisConfig
	ShopAPI   ShopAPIConfig
	Dashboard DashboardConfig
	Worker    WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters for the local store.
// An empty Host disables the database.
type DatabaseConfig struct {
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	MigrationsDir string
}

// Enabled reports whether a database was configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

// RedisConfig contains Redis connection parameters. An empty Host disables Redis.
type RedisConfig struct {
	Host        string
	Port        string
	Password    string
	DB          int
	SnapshotTTL time.Duration
}

// Enabled reports whether Redis was configured.
func (c RedisConfig) Enabled() bool { return c.Host != "" }

// ShopAPIConfig points at the shop backend that serves /dashboard, /bills and /products.
type ShopAPIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// DashboardConfig controls how metrics are computed and formatted.
type DashboardConfig struct {
	Location       *time.Location
	Locale         language.Tag
	CurrencySymbol string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SnapshotRefreshInterval time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Missing .env is fine; production relies on real environment variables.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedHosts = splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000"))

	// Database (optional)
	cfg.DB = DatabaseConfig{
		Host:          getEnv("DB_HOST", ""),
		Port:          getEnv("DB_PORT", "5432"),
		User:          getEnv("DB_USER", ""),
		Password:      getEnv("DB_PASSWORD", ""),
		Name:          getEnv("DB_NAME", ""),
		SSLMode:       getEnv("DB_SSLMODE", "disable"),
		MigrationsDir: getEnv("DB_MIGRATIONS_DIR", "migrations"),
	}

	// Redis (optional)
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Shop backend
	cfg.ShopAPI = ShopAPIConfig{
		BaseURL: strings.TrimRight(getEnv("SHOP_API_BASE_URL", ""), "/"),
		Token:   getEnv("SHOP_API_TOKEN", ""),
	}

	var err error
	if cfg.ShopAPI.Timeout, err = parseDurationEnv("SHOP_API_TIMEOUT", "15s"); err != nil {
		return nil, fmt.Errorf("invalid SHOP_API_TIMEOUT: %w", err)
	}
	if cfg.Redis.SnapshotTTL, err = parseDurationEnv("REDIS_SNAPSHOT_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid REDIS_SNAPSHOT_TTL: %w", err)
	}
	if cfg.Worker.SnapshotRefreshInterval, err = parseDurationEnv("SNAPSHOT_REFRESH_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_REFRESH_INTERVAL: %w", err)
	}

	// Dashboard presentation
	tz := getEnv("DASHBOARD_TIMEZONE", "Asia/Kolkata")
	if cfg.Dashboard.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_TIMEZONE %q: %w", tz, err)
	}
	locale := getEnv("DASHBOARD_LOCALE", "en-IN")
	if cfg.Dashboard.Locale, err = language.Parse(locale); err != nil {
		return nil, fmt.Errorf("invalid DASHBOARD_LOCALE %q: %w", locale, err)
	}
	cfg.Dashboard.CurrencySymbol = getEnv("DASHBOARD_CURRENCY_SYMBOL", "₹")

	if cfg.ShopAPI.BaseURL == "" {
		return nil, errors.New("SHOP_API_BASE_URL must be set")
	}
	if cfg.DB.Enabled() && (cfg.DB.User == "" || cfg.DB.Name == "") {
		return nil, errors.New("database configuration incomplete: ensure DB_USER and DB_NAME are set with DB_HOST")
	}
	if cfg.Worker.SnapshotRefreshInterval == 0 {
		return nil, errors.New("SNAPSHOT_REFRESH_INTERVAL must be > 0")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitList splits a comma separated value, dropping empty entries.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
