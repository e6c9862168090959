package config

import "time"

const (
	defaultPort     = 8080
	defaultLogLevel = "info"
)

var defaultAPI = API{
	BaseURL: "http://localhost:8000/api",
	Timeout: 10 * time.Second,
	Rate:    10,
	Burst:   5,
}

var defaultRetry = Retry{
	MaxAttempts: 3,
	BaseDelay:   200 * time.Millisecond,
	MaxDelay:    2 * time.Second,
}

var defaultStore = Store{
	Backend: StoreBadger,
	Path:    "./data/store",
}

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "test_db",
}

var defaultReachability = Reachability{
	ProbeInterval: 15 * time.Second,
	ProbeTimeout:  3 * time.Second,
}

var defaultSync = Sync{
	MaxPages: 20,
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        5 * time.Minute,
	MaxBuckets: 10000,
}

var defaultDebug = Debug{
	Addr: "127.0.0.1:6060",
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultLogLevel returns the default log level.
func DefaultLogLevel() string {
	return defaultLogLevel
}

// DefaultAPI returns the default remote API settings.
func DefaultAPI() API {
	return defaultAPI
}

// DefaultRetry returns the default retry settings.
func DefaultRetry() Retry {
	return defaultRetry
}

// DefaultStore returns the default store settings.
func DefaultStore() Store {
	return defaultStore
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultReachability returns the default prober settings.
func DefaultReachability() Reachability {
	return defaultReachability
}

// DefaultSync returns the default engine settings.
func DefaultSync() Sync {
	return defaultSync
}

// DefaultRateLimit returns the default inbound rate limit settings.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}

// DefaultDebug returns the default diagnostics listener settings.
func DefaultDebug() Debug {
	return defaultDebug
}
