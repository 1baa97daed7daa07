package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string        `env:"RUN_ADDRESS" envDefault:":8080"`
	DatabaseURI     string        `env:"DATABASE_URI"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	PageSize        int           `env:"PAGE_SIZE" envDefault:"12"`
	// TrustedProxies may set X-Forwarded-For. Empty trusts none.
	TrustedProxies  []string      `env:"TRUSTED_PROXIES" envSeparator:","`

	Culqi     CulqiConfig
	Webhook   WebhookConfig
	Reconcile ReconcileConfig
	R2        R2Config
	SMTP      SMTPConfig
	Queue     QueueConfig
}

// CulqiConfig configures the payment gateway client.
type CulqiConfig struct {
	BaseURL   string        `env:"CULQI_BASE_URL" envDefault:"https://api.culqi.com/v2"`
	SecretKey string        `env:"CULQI_SECRET_KEY"`
	Timeout   time.Duration `env:"CULQI_TIMEOUT" envDefault:"15s"`
}

// WebhookConfig guards the gateway callback endpoint.
type WebhookConfig struct {
	Username  string  `env:"CULQI_WEBHOOK_USERNAME"`
	Password  string  `env:"CULQI_WEBHOOK_PASSWORD"`
	RateLimit float64 `env:"WEBHOOK_RATE_LIMIT" envDefault:"5"`
	Burst     int     `env:"WEBHOOK_BURST" envDefault:"10"`
}

// ReconcileConfig drives the pending sell reconciler.
type ReconcileConfig struct {
	Interval  time.Duration `env:"RECONCILE_INTERVAL" envDefault:"1m"`
	BatchSize int           `env:"RECONCILE_BATCH_SIZE" envDefault:"20"`
	Workers   int           `env:"RECONCILE_WORKERS" envDefault:"2"`
}

// R2Config points at the Cloudflare R2 bucket holding product documents.
type R2Config struct {
	AccountID       string `env:"R2_ACCOUNT_ID"`
	AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"R2_SECRET_ACCESS_KEY"`
	Bucket          string `env:"R2_BUCKET"`
	Endpoint        string `env:"R2_ENDPOINT"`
}

// SMTPConfig configures outgoing mail.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// QueueConfig selects the task queue backend.
type QueueConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"edukar.tasks"`
	Group   string   `env:"KAFKA_GROUP" envDefault:"edukar-mailer"`
	Workers int      `env:"MAIL_WORKERS" envDefault:"2"`
}

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultReconcileInterval = time.Minute
	defaultReconcileBatch    = 20
	defaultReconcileWorkers  = 2
	defaultPageSize          = 12
	maxPageSize              = 100
	defaultMailWorkers       = 2
	defaultTokenTTL          = 24 * time.Hour
)

// Load parses configuration from an optional .env file, environment variables and flags.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return load(os.Args[1:], nil)
}

// load reads the process environment when environ is nil.
func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	flags := flag.NewFlagSet("edukar", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		reconcileIntervalStr = cfg.Reconcile.Interval.String()
		shutdownTimeoutStr   = cfg.ShutdownTimeout.String()
	)

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	flags.StringVar(&cfg.Culqi.BaseURL, "c", cfg.Culqi.BaseURL, "Culqi API base URL")
	flags.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "Secret for signing auth tokens")
	flags.StringVar(&reconcileIntervalStr, "i", reconcileIntervalStr, "Interval between pending sell reconciliations")
	flags.IntVar(&cfg.Reconcile.Workers, "reconcile-workers", cfg.Reconcile.Workers, "Number of concurrent reconcile workers")
	flags.IntVar(&cfg.Reconcile.BatchSize, "reconcile-batch", cfg.Reconcile.BatchSize, "Maximum sells per reconcile batch")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.Reconcile.Interval, err = time.ParseDuration(reconcileIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reconcile interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	lookup := os.LookupEnv
	if environ != nil {
		lookup = func(key string) (string, bool) {
			v, ok := environ[key]
			return v, ok
		}
	}

	secrets := []struct {
		key    string
		target *string
	}{
		{"JWT_SECRET_FILE", &cfg.JWTSecret},
		{"CULQI_SECRET_KEY_FILE", &cfg.Culqi.SecretKey},
		{"R2_SECRET_ACCESS_KEY_FILE", &cfg.R2.SecretAccessKey},
		{"SMTP_PASSWORD_FILE", &cfg.SMTP.Password},
	}
	for _, s := range secrets {
		path, ok := lookup(s.key)
		if !ok || path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", strings.ToLower(s.key), err)
		}
		*s.target = strings.TrimSpace(string(content))
	}

	cfg.normalize()

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.Culqi.SecretKey == "" {
		return nil, fmt.Errorf("culqi secret key must be provided")
	}

	return cfg, nil
}

func (c *Config) normalize() {
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
	if c.PageSize > maxPageSize {
		c.PageSize = maxPageSize
	}
	if c.Reconcile.Interval <= 0 {
		c.Reconcile.Interval = defaultReconcileInterval
	}
	if c.Reconcile.BatchSize <= 0 {
		c.Reconcile.BatchSize = defaultReconcileBatch
	}
	if c.Reconcile.Workers <= 0 {
		c.Reconcile.Workers = defaultReconcileWorkers
	}
	if c.Queue.Workers <= 0 {
		c.Queue.Workers = defaultMailWorkers
	}
	if c.SMTP.From == "" {
		c.SMTP.From = c.SMTP.Username
	}
}

// R2Endpoint returns the S3 compatible endpoint of the configured account.
func (c R2Config) R2Endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	if c.AccountID == "" {
		return ""
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}
