package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var errEmptyList = errors.New("empty list")

// Config is the process configuration, read once from the environment
type Config struct {
	// Server configuration
	Port           string
	GinMode        string
	APIVersion     string
	APIPrefix      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int

	// Database configuration
	Database DatabaseConfig

	// Redis configuration
	Redis RedisConfig

	// JWT configuration
	JWT JWTConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Domain event stream
	Kafka KafkaConfig

	// Fee policy applied at startup
	Fees FeesConfig

	// Bootstrap administrator account
	Admin AdminConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	DSN      string

	// Connection pool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Addr     string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	JWTExpiresIn     time.Duration
	RefreshExpiresIn time.Duration
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled             bool          `json:"enabled"`
	WindowDuration      time.Duration `json:"window_duration"`
	DefaultRequests     int           `json:"default_requests"`
	PublicRequests      int           `json:"public_requests"`
	AuthRequests        int           `json:"auth_requests"`
	PurchaseRequests    int           `json:"purchase_requests"`
	MarketplaceRequests int           `json:"marketplace_requests"`
	AdminRequests       int           `json:"admin_requests"`
	HealthRequests      int           `json:"health_requests"`
	WhitelistedIPs      []string      `json:"whitelisted_ips"`
}

// KafkaConfig holds the journal producer configuration
type KafkaConfig struct {
	Enabled  bool
	Brokers  []string
	Topic    string
	ClientID string
}

// FeesConfig holds the fee policy the platform starts with
type FeesConfig struct {
	IssuanceFee  decimal.Decimal
	ServiceRates map[string]decimal.Decimal
}

// AdminConfig holds the bootstrap administrator credentials
type AdminConfig struct {
	Email    string
	Password string
}

// Load loads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		// Server configuration
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		APIVersion:     getEnv("API_VERSION", "v1"),
		APIPrefix:      getEnv("API_PREFIX", "/api"),
		ReadTimeout:    getDurationEnv("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:   getDurationEnv("WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:    getDurationEnv("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes: getIntEnv("MAX_HEADER_BYTES", 1<<20), // 1 MB

		// Database configuration
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "boletamaster_db"),
			User:     getEnv("DB_USER", "boletamaster_user"),
			Password: getEnv("DB_PASSWORD", "boletamaster_password"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),

			MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},

		// Redis configuration
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},

		// JWT configuration
		JWT: JWTConfig{
			Secret:           getEnv("JWT_SECRET", "your-super-secret-jwt-key"),
			JWTExpiresIn:     getDurationEnvSeconds("JWT_EXPIRES_IN", 15*time.Minute),
			RefreshExpiresIn: getDurationEnvSeconds("JWT_REFRESH_EXPIRES_IN", 24*time.Hour),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			Enabled:             getBoolEnv("RATE_LIMIT_ENABLED", true),
			WindowDuration:      getDurationEnv("RATE_LIMIT_WINDOW_DURATION", 60*time.Second),
			DefaultRequests:     getIntEnv("RATE_LIMIT_DEFAULT_REQUESTS", 60),
			PublicRequests:      getIntEnv("RATE_LIMIT_PUBLIC_REQUESTS", 100),
			AuthRequests:        getIntEnv("RATE_LIMIT_AUTH_REQUESTS", 10),
			PurchaseRequests:    getIntEnv("RATE_LIMIT_PURCHASE_REQUESTS", 20),
			MarketplaceRequests: getIntEnv("RATE_LIMIT_MARKETPLACE_REQUESTS", 40),
			AdminRequests:       getIntEnv("RATE_LIMIT_ADMIN_REQUESTS", 200),
			HealthRequests:      getIntEnv("RATE_LIMIT_HEALTH_REQUESTS", 300),
			WhitelistedIPs:      getStringSliceEnv("RATE_LIMIT_WHITELISTED_IPS", []string{}),
		},

		// Kafka configuration
		Kafka: KafkaConfig{
			Enabled:  getBoolEnv("KAFKA_ENABLED", false),
			Brokers:  getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:    getEnv("KAFKA_TOPIC", "boletamaster.journal"),
			ClientID: getEnv("KAFKA_CLIENT_ID", "boletamaster-api"),
		},

		// Fee policy
		Fees: FeesConfig{
			IssuanceFee:  getDecimalEnv("DEFAULT_ISSUANCE_FEE", decimal.NewFromInt(5)),
			ServiceRates: getRatesEnv("DEFAULT_SERVICE_RATES", "CONCERT:0.10,THEATER:0.08,SPORTS:0.12,FESTIVAL:0.15"),
		},

		// Bootstrap administrator
		Admin: AdminConfig{
			Email:    getEnv("ADMIN_EMAIL", "admin@boletamaster.com"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	cfg.Database.DSN = buildDatabaseDSN(cfg.Database)
	cfg.Redis.Addr = net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port)

	return cfg
}

// buildDatabaseDSN builds the database connection string
func buildDatabaseDSN(db DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode)
}

// lookup parses the variable named key, returning fallback when it is unset or unparsable
func lookup[T any](key string, fallback T, parse func(string) (T, error)) T {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := parse(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnv(key, fallback string) string {
	return lookup(key, fallback, func(v string) (string, error) { return v, nil })
}

func getIntEnv(key string, fallback int) int {
	return lookup(key, fallback, strconv.Atoi)
}

func getBoolEnv(key string, fallback bool) bool {
	return lookup(key, fallback, strconv.ParseBool)
}

func getDecimalEnv(key string, fallback decimal.Decimal) decimal.Decimal {
	return lookup(key, fallback, decimal.NewFromString)
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	return lookup(key, fallback, time.ParseDuration)
}

// getDurationEnvSeconds reads a whole number of seconds
func getDurationEnvSeconds(key string, fallback time.Duration) time.Duration {
	return lookup(key, fallback, func(v string) (time.Duration, error) {
		seconds, err := strconv.Atoi(v)
		return time.Duration(seconds) * time.Second, err
	})
}

// getStringSliceEnv reads a comma-separated list, dropping empty items
func getStringSliceEnv(key string, fallback []string) []string {
	return lookup(key, fallback, func(v string) ([]string, error) {
		var items []string
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				items = append(items, trimmed)
			}
		}
		if len(items) == 0 {
			return nil, errEmptyList
		}
		return items, nil
	})
}

// getRatesEnv parses "TYPE:rate,TYPE:rate" pairs. Malformed pairs are skipped.
func getRatesEnv(key, fallback string) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal)
	for _, pair := range getStringSliceEnv(key, strings.Split(fallback, ",")) {
		name, raw, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			continue
		}
		rates[strings.ToUpper(strings.TrimSpace(name))] = rate
	}
	return rates
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GinMode == "debug"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return ":" + c.Port
}

// GetAPIBasePath returns the API base path
func (c *Config) GetAPIBasePath() string {
	return c.APIPrefix + "/" + c.APIVersion
}
