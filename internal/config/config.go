package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds daemon configuration values.
type Config struct {
	Env string `validate:"required,oneof=dev prod"`
	DB  struct {
		Path        string `validate:"required"`
		BusyTimeout time.Duration
		Migrations  string // migration source URL, empty disables migrations
	}
	HTTP struct {
		Addr string `validate:"required"`
	}
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
	Maintenance struct {
		Enabled     bool
		Schedule    string `validate:"required"` // cron expression with seconds
		CompactInto string // when set, compaction writes a copy instead of rewriting in place
	}
}

var validate = validator.New()

// Load reads configuration from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	c.Env = getenv("ENV", "prod")
	c.DB.Path = getenv("DB_PATH", "data/fluent.db")
	c.DB.BusyTimeout = getduration("DB_BUSY_TIMEOUT", 5*time.Second)
	c.DB.Migrations = os.Getenv("DB_MIGRATIONS")
	c.HTTP.Addr = getenv("HTTP_ADDR", ":8080")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = getenv("LOG_FILE", "data/logs/dbd.log")
	c.Maintenance.Enabled = getbool("MAINTENANCE_ENABLED", true)
	c.Maintenance.Schedule = getenv("MAINTENANCE_SCHEDULE", "0 0 3 * * *")
	c.Maintenance.CompactInto = os.Getenv("MAINTENANCE_COMPACT_INTO")

	if err := validate.Struct(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getbool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
