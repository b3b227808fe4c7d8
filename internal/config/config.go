package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backend names accepted in STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Port            string
	APIBaseURL      string
	SessionToken    string
	UpstreamTimeout time.Duration

	StorageBackend string
	StatePath      string
	RedisURL       string
	CartDBDSN      string
	CartTTL        time.Duration

	ServiceRateBps int
	TipPresets     []int
	TipAllowCustom bool
	SkipTip        bool
	RatingDelay    time.Duration
}

// Load reads configuration from the environment. Defaults suit a local
// run against a development backend; override per deployment.
func Load() Config {
	return Config{
		Port:            getenv("PORT", "8080"),
		APIBaseURL:      getenv("API_BASE_URL", "http://localhost:8000"),
		SessionToken:    getenv("SESSION_TOKEN", ""),
		UpstreamTimeout: parseDuration(getenv("UPSTREAM_TIMEOUT", "10s"), 10*time.Second),

		StorageBackend: getenv("STORAGE_BACKEND", BackendFile),
		StatePath:      getenv("STATE_PATH", "tableside-cart.json"),
		RedisURL:       getenv("REDIS_URL", "redis://localhost:6379/0"),
		CartDBDSN:      getenv("CART_DB_DSN", ""),
		CartTTL:        parseDuration(getenv("CART_TTL", "0s"), 0),

		ServiceRateBps: parseInt(getenv("SERVICE_RATE_BPS", "1000"), 1000),
		TipPresets:     parseIntCSV(getenv("TIP_PRESETS", "10,15,20"), []int{10, 15, 20}),
		TipAllowCustom: parseBool(getenv("TIP_ALLOW_CUSTOM", "true"), true),
		SkipTip:        parseBool(getenv("SKIP_TIP", "false"), false),
		RatingDelay:    parseDuration(getenv("RATING_DELAY", "0s"), 0),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func parseInt(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func parseBool(v string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func parseIntCSV(v string, def []int) []int {
	parts := strings.Split(v, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return def
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return def
	}
	return out
}
