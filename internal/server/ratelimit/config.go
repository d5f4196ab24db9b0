package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, segment glob ("/resumes/*/export.pdf") or prefix ("/p/")
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment
// variables. Malformed values fall back to their defaults.
func LoadConfig() *Config {
	return loadConfig(env(os.LookupEnv))
}

func loadConfig(e env) *Config {
	if !e.flag("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}
	return &Config{
		Enabled:         true,
		DefaultLimit:    e.integer("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   e.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: e.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		IdleTTL:         e.duration("RATE_LIMIT_IDLE_TTL", time.Hour),
		Whitelist:       clientSet(e.str("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(e.str("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the per-route limits. Routes without a
// rule share the default limit.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Credential endpoints
		{Path: "/auth/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 3},
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/auth/password", Method: "PUT", Limit: 5, Window: time.Minute, Burst: 2},

		// Upstream-billed and browser-backed work
		{Path: "/assist", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/resumes/*/export.pdf", Method: "GET", Limit: 10, Window: time.Minute, Burst: 3},
		{Path: "/sessions/*/export.pdf", Method: "GET", Limit: 10, Window: time.Minute, Burst: 3},

		// Writes
		{Path: "/resumes", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/resumes/", Method: "PUT", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/resumes/", Method: "DELETE", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/sessions", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},

		// Public portfolio pages
		{Path: "/p/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 60},
	}
}

// env reads typed settings through a lookup function such as os.LookupEnv.
type env func(key string) (string, bool)

func (e env) str(key string) string {
	v, _ := e(key)
	return strings.TrimSpace(v)
}

func (e env) integer(key string, def int) int {
	if n, err := strconv.Atoi(e.str(key)); err == nil {
		return n
	}
	return def
}

func (e env) flag(key string, def bool) bool {
	if b, err := strconv.ParseBool(e.str(key)); err == nil {
		return b
	}
	return def
}

func (e env) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.str(key)); err == nil {
		return d
	}
	return def
}

// clientSet turns "a, b,c" into a lookup set of client ids.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
