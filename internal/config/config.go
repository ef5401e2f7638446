package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Auth
	JWTSecret     string
	TokenDuration time.Duration

	// Database
	SQLiteDBPath string

	// AMQP mirror queue
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Mirror sink for the worker: "webhook" or "sheets"
	MirrorSink string

	// Chat webhook mirror
	WebhookURLs []string

	// Google Sheets mirror
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Worker
	MirrorBatchSize int
	MirrorInterval  time.Duration

	// Backend selection: "sqlite" or "memory"
	DataBackend string

	// Defaults applied when a user has no stored settings
	DefaultCurrency        string
	DefaultElectricityRate string
	DefaultWaterRate       string

	// Logging
	LogFormat string
	LogLevel  string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		TokenDuration: getEnvDuration("TOKEN_DURATION", 24*time.Hour),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/myfinance.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "myfinance"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mirror_records"),

		MirrorSink:  getEnv("MIRROR_SINK", "webhook"),
		WebhookURLs: splitList(getEnv("WEBHOOK_URLS", "")),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Transactions"),

		MirrorBatchSize: getEnvInt("MIRROR_BATCH_SIZE", 10),
		MirrorInterval:  getEnvDuration("MIRROR_INTERVAL", 30*time.Second),

		DataBackend: getEnv("DATA_BACKEND", "sqlite"),

		DefaultCurrency:        getEnv("DEFAULT_CURRENCY", "NPR"),
		DefaultElectricityRate: getEnv("DEFAULT_ELECTRICITY_RATE", "13"),
		DefaultWaterRate:       getEnv("DEFAULT_WATER_RATE", "15"),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET must be set")
	} else if len(c.JWTSecret) < 16 {
		problems = append(problems, "JWT_SECRET too short: need at least 16 characters")
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory %q: %v", dir, err))
				}
			}
		}
	case "memory":
		// nothing to check
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend %q: must be sqlite or memory", c.DataBackend))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme %q: must be amqp or amqps", u.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	switch c.MirrorSink {
	case "webhook":
		for _, u := range c.WebhookURLs {
			parsed, err := url.Parse(u)
			if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
				problems = append(problems, fmt.Sprintf("invalid webhook URL %q", u))
			}
		}
	case "sheets":
		if c.GoogleSpreadsheetID == "" {
			problems = append(problems, "GOOGLE_SPREADSHEET_ID is required for the sheets mirror sink")
		}
		if c.GoogleSheetName == "" {
			problems = append(problems, "GOOGLE_SHEET_NAME cannot be empty for the sheets mirror sink")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid mirror sink %q: must be webhook or sheets", c.MirrorSink))
	}

	if c.MirrorBatchSize < 1 || c.MirrorBatchSize > 1000 {
		problems = append(problems, fmt.Sprintf("invalid mirror batch size %d: must be between 1 and 1000", c.MirrorBatchSize))
	}
	if c.MirrorInterval < time.Second || c.MirrorInterval > 24*time.Hour {
		problems = append(problems, fmt.Sprintf("invalid mirror interval %v: must be between 1s and 24h", c.MirrorInterval))
	}

	if c.DefaultCurrency != "NPR" && c.DefaultCurrency != "USD" {
		problems = append(problems, fmt.Sprintf("invalid default currency %q: must be NPR or USD", c.DefaultCurrency))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
