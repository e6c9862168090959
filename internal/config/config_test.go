package config_test

import (
	"io"
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"delivery-sync/internal/config"
)

var envKeys = []string{
	"PORT", "LOG_LEVEL",
	"API_BASE_URL", "API_TOKEN", "API_TIMEOUT", "API_RATE", "API_BURST",
	"API_RETRY_MAX_ATTEMPTS", "API_RETRY_BASE_DELAY", "API_RETRY_MAX_DELAY",
	"STORE_BACKEND", "STORE_PATH",
	"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
	"REACHABILITY_PROBE_INTERVAL", "REACHABILITY_PROBE_TIMEOUT",
	"SYNC_MAX_PAGES", "SYNC_USE_BATCH_ENDPOINT",
	"KAFKA_BROKERS", "KAFKA_SYNC_EVENTS_TOPIC",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RATE", "RATE_LIMIT_BURST", "RATE_LIMIT_TTL", "RATE_LIMIT_MAX_BUCKETS",
	"DEBUG_ENABLED", "DEBUG_ADDR", "DEBUG_USER", "DEBUG_PASSWORD",
}

func resetFlags(t *testing.T, args ...string) {
	t.Helper()
	oldArgs := os.Args
	old := pflag.CommandLine
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	pflag.CommandLine = fs
	os.Args = append([]string{"cmd"}, args...)
	t.Cleanup(func() {
		pflag.CommandLine = old
		os.Args = oldArgs
	})
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, config.DefaultAPI(), cfg.API)
	require.Equal(t, config.DefaultRetry(), cfg.Retry)
	require.Equal(t, config.StoreBadger, cfg.Store.Backend)
	require.Equal(t, "./data/store", cfg.Store.Path)
	require.Equal(t, config.DefaultDB(), cfg.DB)
	require.Equal(t, 15*time.Second, cfg.Reachability.ProbeInterval)
	require.Equal(t, 20, cfg.Sync.MaxPages)
	require.False(t, cfg.Sync.UseBatchEndpoint)
	require.False(t, cfg.Kafka.Enabled())
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, config.DefaultDebug(), cfg.Debug)
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetFlags(t)
	clearEnv(t)

	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_URL", "https://api.example.com/api")
	t.Setenv("API_TOKEN", "secret")
	t.Setenv("API_TIMEOUT", "4s")
	t.Setenv("API_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_PORT", "15432")
	t.Setenv("SYNC_MAX_PAGES", "3")
	t.Setenv("SYNC_USE_BATCH_ENDPOINT", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_SYNC_EVENTS_TOPIC", "sync-events")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("DEBUG_ENABLED", "true")
	t.Setenv("DEBUG_ADDR", "0.0.0.0:6061")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "https://api.example.com/api", cfg.API.BaseURL)
	require.Equal(t, "secret", cfg.API.Token)
	require.Equal(t, 4*time.Second, cfg.API.Timeout)
	require.Equal(t, 5, cfg.Retry.MaxAttempts)
	require.Equal(t, config.StorePostgres, cfg.Store.Backend)
	require.Equal(t, "db", cfg.DB.Host)
	require.Equal(t, "15432", cfg.DB.Port)
	require.Equal(t, 3, cfg.Sync.MaxPages)
	require.True(t, cfg.Sync.UseBatchEndpoint)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.True(t, cfg.Kafka.Enabled())
	require.False(t, cfg.RateLimit.Enabled)
	require.True(t, cfg.Debug.Enabled)
	require.Equal(t, "0.0.0.0:6061", cfg.Debug.Addr)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	resetFlags(t, "--port=7070", "--store=memory")
	clearEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Port)
	require.Equal(t, config.StoreMemory, cfg.Store.Backend)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "port out of range", env: map[string]string{"PORT": "70000"}},
		{name: "port not a number", env: map[string]string{"PORT": "abc"}},
		{name: "postgres port", env: map[string]string{"POSTGRES_PORT": "not-a-number"}},
		{name: "duration", env: map[string]string{"API_TIMEOUT": "soon"}},
		{name: "bool", env: map[string]string{"SYNC_USE_BATCH_ENDPOINT": "maybe"}},
		{name: "backend", env: map[string]string{"STORE_BACKEND": "sqlite"}},
		{name: "base url", env: map[string]string{"API_BASE_URL": "::nope"}},
		{name: "retry attempts", env: map[string]string{"API_RETRY_MAX_ATTEMPTS": "0"}},
		{name: "max pages", env: map[string]string{"SYNC_MAX_PAGES": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t)
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := config.Load()
			require.Error(t, err)
			require.Nil(t, cfg)
		})
	}
}

func TestLoad_FlagsParseError(t *testing.T) {
	resetFlags(t, "--port=not-a-number")
	clearEnv(t)

	cfg, err := config.Load()
	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "parse flags")
}

func TestDB_DSN(t *testing.T) {
	db := config.DB{Host: "h", Port: "5432", User: "u", Pass: "p@ss", Name: "n"}
	require.Equal(t, "postgres://u:p%40ss@h:5432/n?sslmode=disable", db.DSN())
}
