// Package config provides application configuration loaded from environment
// variables with defaults and validation. The Config struct is built once at
// startup and passed by reference into the HTTP layer; nothing reads process
// environment at request time.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// RateLimitConfig selects the rate-limit counter store. When RedisAddr is
// empty the process-local memory store is used and ceilings are enforced
// per instance; pointing it at a shared Redis enforces them globally.
type RateLimitConfig struct {
	RedisAddr   string // RATE_LIMIT_REDIS_ADDR, e.g. "redis:6379"
	RedisPrefix string // RATE_LIMIT_REDIS_PREFIX, key namespace
}

// AuthConfig defines credential verification settings.
type AuthConfig struct {
	JWTSecret string        // JWT_SECRET, HMAC key for HS256 tokens
	TokenTTL  time.Duration // JWT_TTL, lifetime of issued tokens
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Environment / logging
	Env       string // development|production; controls error redaction
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// API surface
	APIBasePath       string // base path for API routes, e.g. "/api/v1"
	SupportedVersions []int  // accepted /api/v{N} versions

	// Request pipeline
	MaxBodyBytes   int64         // request payload ceiling
	RequestTimeout time.Duration // per-request deadline before 408
	CacheMaxAge    time.Duration // Cache-Control max-age for GET responses

	// App
	DBPath string // SQLite path

	Auth      AuthConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Security  SecurityConfig
	OTEL      OTELConfig
}

// Development reports whether the app runs with developer ergonomics
// (unredacted internal error messages).
func (c Config) Development() bool { return c.Env == "development" }

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Environment / logging
		Env:       strings.ToLower(getenv("APP_ENV", "development")),
		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		// API surface
		APIBasePath:       normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),
		SupportedVersions: splitInts(getenv("API_VERSIONS", "1")),

		// Request pipeline
		MaxBodyBytes:   int64(getint("MAX_BODY_BYTES", 10<<20)),
		RequestTimeout: getdur("REQUEST_TIMEOUT", 30*time.Second),
		CacheMaxAge:    getdur("CACHE_MAX_AGE", 0),

		// App
		DBPath: getenv("DB_PATH", "app.db"),

		Auth: AuthConfig{
			JWTSecret: getenv("JWT_SECRET", ""),
			TokenTTL:  getdur("JWT_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:   getenv("RATE_LIMIT_REDIS_ADDR", ""),
			RedisPrefix: getenv("RATE_LIMIT_REDIS_PREFIX", "ratelimit"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-property-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	switch cfg.Env {
	case "development", "production":
	default:
		cfg.Env = "production" // unknown environments fail safe: redact
	}
	// A fixed development secret keeps local setups zero-config; production
	// must provide its own.
	if cfg.Auth.JWTSecret == "" && cfg.Env == "development" {
		cfg.Auth.JWTSecret = "development-secret-do-not-deploy"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	if cfg.RequestTimeout <= 0 {
		return cfg, errors.New("REQUEST_TIMEOUT must be > 0")
	}
	if cfg.CacheMaxAge < 0 {
		return cfg, errors.New("CACHE_MAX_AGE must be >= 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if len(cfg.SupportedVersions) == 0 {
		return cfg, errors.New("API_VERSIONS must list at least one version")
	}
	if cfg.Auth.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required outside development")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return cfg, errors.New("JWT_TTL must be > 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// splitInts parses a CSV of integers, dropping anything unparseable.
func splitInts(s string) []int {
	var out []int
	for _, p := range splitCSV(s) {
		if n, err := strconv.Atoi(p); err == nil {
			out = append(out, n)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
