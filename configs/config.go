package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Mongo     MongoConfig
	Auth      AuthConfig
	Ledger    LedgerConfig
	Scheduler SchedulerConfig
	Telegram  TelegramConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port     string
	OpsPort  string
	Env      string
	Timezone string
}

// StoreConfig selects where the ledger document lives
type StoreConfig struct {
	Driver   string // file, postgres, redis or mongo
	FilePath string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL string
	Key string
}

// MongoConfig holds MongoDB configuration
type MongoConfig struct {
	URI      string
	Database string
}

// AuthConfig holds session and operator credentials
type AuthConfig struct {
	JWTSecret     string
	AdminPassword string
}

// LedgerConfig holds business rules that vary per deployment
type LedgerConfig struct {
	AllowedTerms []int
}

// SchedulerConfig holds the maturation sweep schedule
type SchedulerConfig struct {
	SweepCron string
}

// TelegramConfig holds operator notification settings
type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

// Store drivers
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
)

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     getEnv("PORT", "8080"),
			OpsPort:  getEnv("OPS_PORT", "8081"),
			Env:      getEnv("GO_ENV", "development"),
			Timezone: getEnv("TZ", "America/Mexico_City"),
		},
		Store: StoreConfig{
			Driver:   strings.ToLower(getEnv("STORE_DRIVER", DriverFile)),
			FilePath: getEnv("STORE_FILE_PATH", "data/ledger.json"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        int32(getEnvInt64("DB_MAX_CONNS", 4)),
			MinConns:        int32(getEnvInt64("DB_MIN_CONNS", 1)),
			MaxConnLifetime: getEnvDuration("DB_MAX_CONN_LIFETIME", time.Hour),
			MaxConnIdleTime: getEnvDuration("DB_MAX_CONN_IDLE_TIME", 15*time.Minute),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
			Key: getEnv("REDIS_KEY", "propshare:ledger"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGODB_URI", ""),
			Database: getEnv("MONGODB_DATABASE", "propshare"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "default-secret-change-in-production"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Ledger: LedgerConfig{
			AllowedTerms: parseTerms(getEnv("ALLOWED_TERMS", "7,15,30,60,90,180,365")),
		},
		Scheduler: SchedulerConfig{
			SweepCron: getEnv("SWEEP_CRON", "0 */5 * * * *"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnvInt64("TELEGRAM_CHAT_ID", 0),
		},
	}
}

// IsProduction reports whether GO_ENV is production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		log.Printf("[WARN] Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("[WARN] Invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

// parseTerms reads a comma separated list of positive day counts. Invalid
// entries are skipped.
func parseTerms(raw string) []int {
	var terms []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			log.Printf("[WARN] Ignoring invalid investment term %q", part)
			continue
		}
		terms = append(terms, n)
	}
	return terms
}
