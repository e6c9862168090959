package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Store backends
const (
	StoreBadger   = "badger"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config stores service settings.
type Config struct {
	Port         int
	LogLevel     string
	API          API
	Retry        Retry
	Store        Store
	DB           DB
	Reachability Reachability
	Sync         Sync
	Kafka        Kafka
	RateLimit    RateLimit
	Debug        Debug
}

// API configures the remote delivery API client.
type API struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Rate    float64
	Burst   int
}

// Retry configures retries against the remote delivery API.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Store selects the local slot backend.
type Store struct {
	Backend string
	Path    string
}

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the pgx connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Reachability configures the connectivity prober.
type Reachability struct {
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

// Sync configures the synchronization engine.
type Sync struct {
	MaxPages         int
	UseBatchEndpoint bool
}

// Kafka configures the optional sync event journal.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether the journal should be published.
func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0 && k.Topic != ""
}

// RateLimit configures the inbound per-IP limiter.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Debug configures the loopback-or-basic-auth diagnostics listener.
type Debug struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:         DefaultPort(),
		LogLevel:     DefaultLogLevel(),
		API:          DefaultAPI(),
		Retry:        DefaultRetry(),
		Store:        DefaultStore(),
		DB:           DefaultDB(),
		Reachability: DefaultReachability(),
		Sync:         DefaultSync(),
		RateLimit:    DefaultRateLimit(),
		Debug:        DefaultDebug(),
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(envInt("PORT", &cfg.Port))
	envString("LOG_LEVEL", &cfg.LogLevel)

	envString("API_BASE_URL", &cfg.API.BaseURL)
	envString("API_TOKEN", &cfg.API.Token)
	collect(envDuration("API_TIMEOUT", &cfg.API.Timeout))
	collect(envFloat("API_RATE", &cfg.API.Rate))
	collect(envInt("API_BURST", &cfg.API.Burst))

	collect(envInt("API_RETRY_MAX_ATTEMPTS", &cfg.Retry.MaxAttempts))
	collect(envDuration("API_RETRY_BASE_DELAY", &cfg.Retry.BaseDelay))
	collect(envDuration("API_RETRY_MAX_DELAY", &cfg.Retry.MaxDelay))

	envString("STORE_BACKEND", &cfg.Store.Backend)
	envString("STORE_PATH", &cfg.Store.Path)

	envString("POSTGRES_HOST", &cfg.DB.Host)
	envString("POSTGRES_PORT", &cfg.DB.Port)
	envString("POSTGRES_USER", &cfg.DB.User)
	envString("POSTGRES_PASSWORD", &cfg.DB.Pass)
	envString("POSTGRES_DB", &cfg.DB.Name)

	collect(envDuration("REACHABILITY_PROBE_INTERVAL", &cfg.Reachability.ProbeInterval))
	collect(envDuration("REACHABILITY_PROBE_TIMEOUT", &cfg.Reachability.ProbeTimeout))

	collect(envInt("SYNC_MAX_PAGES", &cfg.Sync.MaxPages))
	collect(envBool("SYNC_USE_BATCH_ENDPOINT", &cfg.Sync.UseBatchEndpoint))

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitList(v)
	}
	envString("KAFKA_SYNC_EVENTS_TOPIC", &cfg.Kafka.Topic)

	collect(envBool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled))
	collect(envFloat("RATE_LIMIT_RATE", &cfg.RateLimit.Rate))
	collect(envInt("RATE_LIMIT_BURST", &cfg.RateLimit.Burst))
	collect(envDuration("RATE_LIMIT_TTL", &cfg.RateLimit.TTL))
	collect(envInt("RATE_LIMIT_MAX_BUCKETS", &cfg.RateLimit.MaxBuckets))

	collect(envBool("DEBUG_ENABLED", &cfg.Debug.Enabled))
	envString("DEBUG_ADDR", &cfg.Debug.Addr)
	envString("DEBUG_USER", &cfg.Debug.User)
	envString("DEBUG_PASSWORD", &cfg.Debug.Pass)

	if len(errs) > 0 {
		return nil, fmt.Errorf("env: %w", errs[0])
	}

	fs := pflag.CommandLine
	fs.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug|info|warn|error")
	fs.StringVar(&cfg.API.BaseURL, "api-base-url", cfg.API.BaseURL, "remote delivery API base URL")
	fs.StringVar(&cfg.Store.Backend, "store", cfg.Store.Backend, "local store backend: badger|postgres|memory")
	fs.StringVar(&cfg.Store.Path, "store-path", cfg.Store.Path, "badger data directory")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := strconv.Atoi(c.DB.Port); err != nil {
		return fmt.Errorf("invalid postgres port %q: %w", c.DB.Port, err)
	}
	switch c.Store.Backend {
	case StoreBadger, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("invalid api base url %q: %w", c.API.BaseURL, err)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("invalid retry max attempts: %d", c.Retry.MaxAttempts)
	}
	if c.Sync.MaxPages < 1 {
		return fmt.Errorf("invalid sync max pages: %d", c.Sync.MaxPages)
	}
	return nil
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
