package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Access   AccessConfig
	Snapshot SnapshotConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type StoreConfig struct {
	Driver     string
	SQLitePath string
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AccessConfig struct {
	AdminPassphrase   string
	WitnessPassphrase string
	RatePerMinute     int
	RateBurst         int
}

type SnapshotConfig struct {
	// Schedule is a cron spec; empty disables scheduled snapshots.
	Schedule    string
	Dir         string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
	Timeout     time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
			SQLitePath: getEnv("SQLITE_PATH", "data/catalog.db"),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "godscruiseline"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 1),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Access: AccessConfig{
			AdminPassphrase:   os.Getenv("ADMIN_PASSPHRASE"),
			WitnessPassphrase: os.Getenv("WITNESS_PASSPHRASE"),
			RatePerMinute:     getEnvAsInt("AUTH_RATE_PER_MINUTE", 30),
			RateBurst:         getEnvAsInt("AUTH_RATE_BURST", 5),
		},
		Snapshot: SnapshotConfig{
			Schedule:    getEnv("SNAPSHOT_SCHEDULE", ""),
			Dir:         getEnv("SNAPSHOT_DIR", "snapshots"),
			S3Bucket:    getEnv("SNAPSHOT_S3_BUCKET", ""),
			S3Region:    getEnv("SNAPSHOT_S3_REGION", "us-east-1"),
			S3Endpoint:  getEnv("SNAPSHOT_S3_ENDPOINT", ""),
			S3PathStyle: getEnvAsBool("SNAPSHOT_S3_PATH_STYLE", false),
			Timeout:     getEnvAsDuration("SNAPSHOT_TIMEOUT", 30*time.Second),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want postgres, sqlite or redis)", c.Store.Driver)
	}

	if c.Access.RatePerMinute < 1 {
		return fmt.Errorf("AUTH_RATE_PER_MINUTE must be positive")
	}

	return nil
}

// PostgresDSN returns DB_DSN when set, otherwise a URL assembled from the DB_* parts.
func (d DatabaseConfig) PostgresDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
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
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
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
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
