package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration derived from environment variables.
type Config struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	ServiceName     string

	PostgresDSN string
	RedisAddr   string

	// AccessPassword gates the API; TokenSecret signs the session tokens
	// handed out in exchange for it.
	AccessPassword string
	TokenSecret    string
	TokenTTL       time.Duration

	// MinSpendForWinner is the spend threshold a creative must clear before
	// it can win an A/B group, in currency units.
	MinSpendForWinner float64

	MaxUploadBytes    int64
	ThumbnailTimeout  time.Duration
	ThumbnailMaxBytes int64

	// Database connection pooling configuration
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Tracing configuration
	TracingEnabled    bool
	OTLPEndpoint      string
	TracingSampleRate float64
}

// Load reads an optional .env file, then parses environment variables into a
// Config populated with defaults when variables are absent.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{}

	cfg.Port = getenv("PORT", "8787")
	cfg.ReadTimeout = envDuration("READ_TIMEOUT", 15*time.Second)
	cfg.WriteTimeout = envDuration("WRITE_TIMEOUT", 30*time.Second)
	cfg.ShutdownTimeout = envDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	cfg.ServiceName = getenv("SERVICE_NAME", "vidlytics")

	cfg.PostgresDSN = getenv("POSTGRES_DSN", "postgres://postgres@127.0.0.1:5432/postgres?sslmode=disable")
	cfg.RedisAddr = getenv("REDIS_ADDR", "localhost:6379")

	cfg.AccessPassword = getenv("ACCESS_PASSWORD", "")
	cfg.TokenSecret = getenv("TOKEN_SECRET", "")
	cfg.TokenTTL = envDuration("TOKEN_TTL", 12*time.Hour)

	cfg.MinSpendForWinner = envFloat("MIN_SPEND_FOR_WINNER", 10.0)

	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", 32<<20)
	cfg.ThumbnailTimeout = envDuration("THUMBNAIL_TIMEOUT", 10*time.Second)
	cfg.ThumbnailMaxBytes = envInt64("THUMBNAIL_MAX_BYTES", 4<<20)

	cfg.DBMaxOpenConns = envInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DBMaxIdleConns = envInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DBConnMaxLifetime = envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)

	cfg.TracingEnabled = envBool("TRACING_ENABLED", false)
	cfg.OTLPEndpoint = getenv("OTLP_ENDPOINT", "tempo:4317")
	cfg.TracingSampleRate = envFloat("TRACING_SAMPLE_RATE", 1.0)

	return cfg
}

// getenv returns the value of the environment variable if set, otherwise def.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envDuration parses an environment variable into a time.Duration. The value
// can be a duration string (e.g. "5s") or a number of seconds. If the
// variable is unset or invalid, def is returned.
func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

// envBool parses a boolean environment variable. When unset or invalid, def
// is returned.
func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

// envInt parses an integer environment variable. When unset or invalid, def is returned.
func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

// envInt64 parses a 64-bit integer environment variable. When unset or invalid, def is returned.
func envInt64(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	return def
}

// envFloat parses a float64 environment variable. When unset or invalid, def is returned.
func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}
