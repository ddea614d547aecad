package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	LogLevel    string

	RedisAddress   string
	RedisDB        int
	IdempotencyTTL time.Duration

	KafkaBrokers     []string
	EscalationTopic  string
	OrderEventsTopic string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripeBackendURL    string
	Currency            string

	AdminTokenSecret string
	AdminTokenTTL    time.Duration
	AdminEmails      []string

	Timezone           string
	Location           *time.Location
	OrderWindow        string
	WeeklyReset        string
	ResetCheckInterval time.Duration
	VerifyLookback     time.Duration

	BlobDir     string
	BlobBaseURL string

	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultLogLevel           = "info"
	defaultAdminTokenSecret   = "change-me-in-production"
	defaultAdminTokenTTL      = 12 * time.Hour
	defaultIdempotencyTTL     = 7 * 24 * time.Hour
	defaultEscalationTopic    = "bakery.payments.escalations"
	defaultOrderEventsTopic   = "bakery.orders.placed"
	defaultCurrency           = "usd"
	defaultTimezone           = "America/New_York"
	defaultOrderWindow        = "mon=06:00-24:00,tue=00:00-24:00,wed=00:00-24:00,thu=00:00-17:00"
	defaultResetCheckInterval = 15 * time.Second
	defaultVerifyLookback     = 5 * time.Minute
	defaultBlobDir            = "data/images"
	defaultBlobBaseURL        = "/images"
	defaultShutdownTimeout    = 10 * time.Second
)

// Load parses configuration from flags, environment variables and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

// LoadArgs behaves like Load but parses the provided arguments instead of os.Args.
func LoadArgs(args []string) (*Config, error) {
	_ = godotenv.Load()
	return load(args, os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		LogLevel:            getString(lookup, "LOG_LEVEL", defaultLogLevel),
		RedisAddress:        getString(lookup, "REDIS_ADDRESS", ""),
		RedisDB:             getInt(lookup, "REDIS_DB", 0),
		IdempotencyTTL:      getDuration(lookup, "IDEMPOTENCY_TTL", defaultIdempotencyTTL),
		KafkaBrokers:        splitCSV(getString(lookup, "KAFKA_BROKERS", "")),
		EscalationTopic:     getString(lookup, "ESCALATION_TOPIC", defaultEscalationTopic),
		OrderEventsTopic:    getString(lookup, "ORDER_EVENTS_TOPIC", defaultOrderEventsTopic),
		StripeSecretKey:     getString(lookup, "STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getString(lookup, "STRIPE_WEBHOOK_SECRET", ""),
		StripeBackendURL:    getString(lookup, "STRIPE_BACKEND_URL", ""),
		Currency:            getString(lookup, "CURRENCY", defaultCurrency),
		AdminTokenSecret:    getString(lookup, "ADMIN_TOKEN_SECRET", defaultAdminTokenSecret),
		AdminTokenTTL:       getDuration(lookup, "ADMIN_TOKEN_TTL", defaultAdminTokenTTL),
		AdminEmails:         normalizeEmails(splitCSV(getString(lookup, "ADMIN_EMAILS", ""))),
		Timezone:            getString(lookup, "TIMEZONE", defaultTimezone),
		OrderWindow:         getString(lookup, "ORDER_WINDOW", defaultOrderWindow),
		WeeklyReset:         getString(lookup, "WEEKLY_RESET", ""),
		ResetCheckInterval:  getDuration(lookup, "RESET_CHECK_INTERVAL", defaultResetCheckInterval),
		VerifyLookback:      getDuration(lookup, "VERIFY_LOOKBACK", defaultVerifyLookback),
		BlobDir:             getString(lookup, "BLOB_DIR", defaultBlobDir),
		BlobBaseURL:         getString(lookup, "BLOB_BASE_URL", defaultBlobBaseURL),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("sourbakery", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		verifyLookbackStr  = cfg.VerifyLookback.String()
		kafkaBrokersStr    = strings.Join(cfg.KafkaBrokers, ",")
		adminEmailsStr     = strings.Join(cfg.AdminEmails, ",")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the idempotency cache")
	fs.StringVar(&kafkaBrokersStr, "kafka", kafkaBrokersStr, "Comma separated Kafka brokers")
	fs.StringVar(&cfg.AdminTokenSecret, "admin-token-secret", cfg.AdminTokenSecret, "Secret for signing admin tokens")
	fs.StringVar(&adminEmailsStr, "admin-emails", adminEmailsStr, "Comma separated admin email allowlist")
	fs.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "IANA timezone of the order window")
	fs.StringVar(&cfg.OrderWindow, "order-window", cfg.OrderWindow, "Weekly order window schedule")
	fs.StringVar(&cfg.WeeklyReset, "weekly-reset", cfg.WeeklyReset, "Scheduled weekly reset, e.g. \"sun 23:00\"")
	fs.StringVar(&verifyLookbackStr, "verify-lookback", verifyLookbackStr, "Order verification lookback")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.BlobDir, "blob-dir", cfg.BlobDir, "Directory for product images")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.VerifyLookback, err = time.ParseDuration(verifyLookbackStr); err != nil {
		return nil, fmt.Errorf("invalid verify lookback: %w", err)
	}

	cfg.KafkaBrokers = splitCSV(kafkaBrokersStr)
	cfg.AdminEmails = normalizeEmails(splitCSV(adminEmailsStr))

	secrets := []struct {
		key    string
		target *string
	}{
		{"ADMIN_TOKEN_SECRET_FILE", &cfg.AdminTokenSecret},
		{"STRIPE_SECRET_KEY_FILE", &cfg.StripeSecretKey},
		{"STRIPE_WEBHOOK_SECRET_FILE", &cfg.StripeWebhookSecret},
	}
	for _, s := range secrets {
		if err := readSecretFile(lookup, s.key, s.target); err != nil {
			return nil, err
		}
	}

	if cfg.Location, err = time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.VerifyLookback <= 0 {
		cfg.VerifyLookback = defaultVerifyLookback
	}

	if cfg.RedisDB < 0 {
		cfg.RedisDB = 0
	}

	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = defaultIdempotencyTTL
	}

	if cfg.AdminTokenTTL <= 0 {
		cfg.AdminTokenTTL = defaultAdminTokenTTL
	}

	if cfg.ResetCheckInterval <= 0 {
		cfg.ResetCheckInterval = defaultResetCheckInterval
	}

	cfg.Currency = strings.ToLower(strings.TrimSpace(cfg.Currency))
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

// IsAdminEmail reports whether email is on the admin allowlist.
func (c *Config) IsAdminEmail(email string) bool {
	email = NormalizeEmail(email)
	if email == "" {
		return false
	}
	for _, allowed := range c.AdminEmails {
		if allowed == email {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func readSecretFile(lookup envLookup, key string, target *string) error {
	path, ok := lookup(key)
	if !ok || path == "" {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", strings.ToLower(strings.TrimSuffix(key, "_FILE")), err)
	}
	*target = strings.TrimSpace(string(content))
	return nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		if n := NormalizeEmail(e); n != "" {
			out = append(out, n)
		}
	}
	return out
}
