// Package config loads process configuration for platesync from environment
// variables. Every field carries its default in a struct tag and the whole
// value is validated once at startup.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Logging LoggingConfig
	Store   StoreConfig
	Fetch   FetchConfig
	Import  ImportConfig
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// StoreConfig selects and configures the persistence backend that keeps the
// import configuration and the last imported record set.
type StoreConfig struct {
	// Backend is one of file, redis, postgres (default: file)
	Backend string `env:"STORE_BACKEND" default:"file"`

	// Dir is the directory used by the file backend (default: .platesync)
	Dir string `env:"STORE_DIR" default:".platesync"`

	// KeyPrefix namespaces keys in shared backends (default: platesync:)
	KeyPrefix string `env:"STORE_KEY_PREFIX" default:"platesync:"`

	RedisAddr     string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" default:"0"`

	// DatabaseURL is the PostgreSQL DSN, required only for the postgres backend.
	// DB_URL is accepted as a fallback.
	DatabaseURL string `env:"DATABASE_URL" envAlt:"DB_URL"`
}

// FetchConfig holds settings for downloading hosted spreadsheet exports.
type FetchConfig struct {
	// BaseURL is the spreadsheet host export URLs are built against
	BaseURL string `env:"FETCH_BASE_URL" default:"https://docs.google.com"`

	// Timeout bounds a single export request (default: 30s)
	Timeout time.Duration `env:"FETCH_TIMEOUT" default:"30s"`

	// RetryCount is the number of retries within one strategy (default: 1)
	RetryCount int `env:"FETCH_RETRY_COUNT" default:"1"`

	UserAgent string `env:"FETCH_USER_AGENT" default:"platesync/1.0"`
}

// ImportConfig holds tuning for the ingestion pipeline.
type ImportConfig struct {
	// HeaderScanRows is how many leading rows the header discovery inspects (default: 15)
	HeaderScanRows int `env:"IMPORT_HEADER_SCAN_ROWS" default:"15"`

	// VehicleSlots is how many plate/brand/color column groups are read per row (default: 3)
	VehicleSlots int `env:"IMPORT_VEHICLE_SLOTS" default:"3"`

	// MaxFileSize caps local files and downloaded exports in bytes (default: 100MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"104857600"`

	// Timeout bounds a whole import run (default: 2m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"2m"`

	// KeywordsFile optionally points at a YAML file overriding keyword groups
	KeywordsFile string `env:"IMPORT_KEYWORDS_FILE"`
}

// RedisDSN returns host:port/db for log output; the password is never included.
func (c *StoreConfig) RedisDSN() string {
	return c.RedisAddr + "/" + strconv.Itoa(c.RedisDB)
}
