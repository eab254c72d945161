package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/platesync/internal/core"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct walks the struct and fills every tagged field from the environment.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fv := v.Field(i)

		if !fv.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fv); err != nil {
				return err
			}
			continue
		}

		name := field.Tag.Get("env")
		if name == "" {
			continue
		}

		value, ok := lookup(name, field.Tag.Get("envAlt"))
		if !ok {
			if field.Tag.Get("required") == "true" {
				return fmt.Errorf("required environment variable %s is not set", name)
			}
			value = field.Tag.Get("default")
		}
		if value == "" {
			continue
		}

		if err := setField(fv, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, value, err)
		}
	}

	return nil
}

// lookup returns the first non-empty value of the primary or alternate variable.
func lookup(name, alt string) (string, bool) {
	if v := os.Getenv(name); v != "" {
		return v, true
	}
	if alt != "" {
		if v := os.Getenv(alt); v != "" {
			return v, true
		}
	}
	return "", false
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == durationType {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.SetInt(int64(d))
			return nil
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is usable.
// Returns one error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	levels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !levels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	formats := map[string]bool{"text": true, "json": true}
	if !formats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	switch strings.ToLower(c.Store.Backend) {
	case "file":
		if c.Store.Dir == "" {
			errs = append(errs, "STORE_DIR is required for the file backend")
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			errs = append(errs, "REDIS_ADDR is required for the redis backend")
		}
		if c.Store.RedisDB < 0 {
			errs = append(errs, "REDIS_DB must be non-negative")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres backend")
		}
	default:
		errs = append(errs, fmt.Sprintf("STORE_BACKEND (%q) must be one of: file, redis, postgres", c.Store.Backend))
	}

	if c.Fetch.BaseURL == "" {
		errs = append(errs, "FETCH_BASE_URL must not be empty")
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, "FETCH_TIMEOUT must be positive")
	}
	if c.Fetch.RetryCount < 0 {
		errs = append(errs, "FETCH_RETRY_COUNT must be non-negative")
	}

	if c.Import.HeaderScanRows <= 0 {
		errs = append(errs, "IMPORT_HEADER_SCAN_ROWS must be positive")
	}
	if c.Import.VehicleSlots < 1 || c.Import.VehicleSlots > core.MaxVehicleSlots {
		errs = append(errs, fmt.Sprintf("IMPORT_VEHICLE_SLOTS (%d) must be 1-%d", c.Import.VehicleSlots, core.MaxVehicleSlots))
	}
	if c.Import.MaxFileSize <= 0 {
		errs = append(errs, "IMPORT_MAX_FILE_SIZE must be positive")
	}
	if c.Import.Timeout <= 0 {
		errs = append(errs, "IMPORT_TIMEOUT must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a log-safe summary. Credentials are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Store: {Backend: %q, Dir: %q, Redis: %q, DatabaseURL: [MASKED]}, ",
		c.Store.Backend, c.Store.Dir, c.Store.RedisDSN())
	fmt.Fprintf(&b, "Fetch: {BaseURL: %q, Timeout: %s, RetryCount: %d}, ",
		c.Fetch.BaseURL, c.Fetch.Timeout, c.Fetch.RetryCount)
	fmt.Fprintf(&b, "Import: {HeaderScanRows: %d, VehicleSlots: %d, MaxFileSize: %d}, ",
		c.Import.HeaderScanRows, c.Import.VehicleSlots, c.Import.MaxFileSize)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
