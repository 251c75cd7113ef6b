package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Screening thresholds
	Thresholds Thresholds

	// Scan behaviour
	Scan ScanConfig

	// Quote validation bounds
	Quote QuoteConfig

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration. Redis is optional; when disabled
// the cache layer degrades to a pass-through.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Thresholds defines the fundamental screening criteria. Growth and
// profitability values are ratios (0.12 = 12%).
type Thresholds struct {
	MinRevenueGrowth  float64
	MinEarningsGrowth float64
	MinROE            float64
	MinProfitMargin   float64
	MinPE             float64
	MaxPE             float64
	MinPEG            float64
	MaxPEG            float64
	MinMarketCap      float64
}

// ScanConfig controls how a pipeline run walks the universe.
type ScanConfig struct {
	ScanLimit int           // hard cap on tickers processed per run
	TopN      int           // survivors after ranking
	Delay     time.Duration // pause between per-ticker network calls
}

// QuoteConfig bounds accepted quote values; anything outside (MinPrice,
// MaxPrice) is treated as a scraping artifact and dropped.
type QuoteConfig struct {
	MinPrice float64
	MaxPrice float64
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Thresholds: Thresholds{
			MinRevenueGrowth:  getEnvAsFloat("MIN_REVENUE_GROWTH", 0.12),
			MinEarningsGrowth: getEnvAsFloat("MIN_EARNINGS_GROWTH", 0.10),
			MinROE:            getEnvAsFloat("MIN_ROE", 0.15),
			MinProfitMargin:   getEnvAsFloat("MIN_PROFIT_MARGIN", 0.08),
			MinPE:             getEnvAsFloat("MIN_PE_RATIO", 10),
			MaxPE:             getEnvAsFloat("MAX_PE_RATIO", 30),
			MinPEG:            getEnvAsFloat("MIN_PEG_RATIO", 0.3),
			MaxPEG:            getEnvAsFloat("MAX_PEG_RATIO", 2.0),
			MinMarketCap:      getEnvAsFloat("MIN_MARKET_CAP", 2_000_000_000),
		},

		Scan: ScanConfig{
			ScanLimit: getEnvAsInt("SCAN_LIMIT", 2000),
			TopN:      getEnvAsInt("TOP_N", 20),
			Delay:     getEnvAsDuration("SCAN_DELAY", "100ms"),
		},

		Quote: QuoteConfig{
			MinPrice: getEnvAsFloat("QUOTE_MIN_PRICE", 0.01),
			MaxPrice: getEnvAsFloat("QUOTE_MAX_PRICE", 1_000_000),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration consistency. Invalid threshold bounds must
// fail here, before any network I/O happens.
func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if c.Quote.MinPrice >= c.Quote.MaxPrice {
		return fmt.Errorf("quote price band inverted: min %.2f >= max %.2f", c.Quote.MinPrice, c.Quote.MaxPrice)
	}
	if c.Scan.TopN <= 0 {
		return fmt.Errorf("TOP_N must be positive: %d", c.Scan.TopN)
	}
	return c.Thresholds.Validate()
}

// Validate checks threshold bounds.
func (t *Thresholds) Validate() error {
	if t.MinPE >= t.MaxPE {
		return fmt.Errorf("PE band inverted: min %.2f >= max %.2f", t.MinPE, t.MaxPE)
	}
	if t.MinPEG >= t.MaxPEG {
		return fmt.Errorf("PEG band inverted: min %.2f >= max %.2f", t.MinPEG, t.MaxPEG)
	}
	if t.MinRevenueGrowth < 0 {
		return fmt.Errorf("MIN_REVENUE_GROWTH must not be negative: %.2f", t.MinRevenueGrowth)
	}
	if t.MinMarketCap < 0 {
		return fmt.Errorf("MIN_MARKET_CAP must not be negative: %.0f", t.MinMarketCap)
	}
	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
