package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel        slog.Level
	HTTPEnabled     bool
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	RateLimitPerWindow int
	RateLimitWindow    time.Duration
	RateLimitWhitelist []string

	EventConfigPath string
	AirportsCSVPath string
	OutputRoot      string

	VATSIMStatusURL string
	VATSIMDataURL   string
	RequestTimeout  time.Duration

	ChannelCapacity int
	CaptureRangeNM  float64
	PreRoll         time.Duration
	PostRoll        time.Duration
	PollCadence     time.Duration
	PollMaxCredit   time.Duration
	RetryDelay      time.Duration

	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        getLogLevelEnv("LOG_LEVEL", slog.LevelInfo),
		HTTPEnabled:     getBoolEnv("HTTP_ENABLED", true),
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:     getDurationEnv("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getDurationEnv("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 30*time.Second),

		RateLimitPerWindow: getIntEnv("RATE_LIMIT_PER_WINDOW", 120),
		RateLimitWindow:    getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		RateLimitWhitelist: getCSVEnv("RATE_LIMIT_WHITELIST"),

		EventConfigPath: getEnv("EVENT_CONFIG", "event.yaml"),
		AirportsCSVPath: getEnv("AIRPORTS_CSV", "./APT_BASE.csv"),
		OutputRoot:      getEnv("OUTPUT_ROOT", "."),

		VATSIMStatusURL: getEnv("VATSIM_STATUS_URL", "https://status.vatsim.net/status.json"),
		VATSIMDataURL:   getEnv("VATSIM_DATA_URL", ""),
		RequestTimeout:  getDurationEnv("REQUEST_TIMEOUT", 30*time.Second),

		ChannelCapacity: getIntEnv("CHANNEL_CAPACITY", 32),
		CaptureRangeNM:  getFloatEnv("CAPTURE_RANGE_NM", 600),
		PreRoll:         getDurationEnv("PRE_ROLL", 5*time.Minute),
		PostRoll:        getDurationEnv("POST_ROLL", 5*time.Minute),
		PollCadence:     getDurationEnv("POLL_CADENCE", 5*time.Second),
		PollMaxCredit:   getDurationEnv("POLL_MAX_CREDIT", 4*time.Second),
		RetryDelay:      getDurationEnv("RETRY_DELAY", time.Second),

		RedisEnabled:  getBoolEnv("REDIS_ENABLED", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		CacheTTL:      getDurationEnv("CACHE_TTL", 30*24*time.Hour),
	}

	if cfg.ChannelCapacity <= 0 {
		return nil, fmt.Errorf("CHANNEL_CAPACITY must be > 0, got %d", cfg.ChannelCapacity)
	}
	if cfg.CaptureRangeNM <= 0 {
		return nil, fmt.Errorf("CAPTURE_RANGE_NM must be > 0, got %g", cfg.CaptureRangeNM)
	}
	if cfg.PollCadence <= 0 || cfg.RetryDelay <= 0 {
		return nil, fmt.Errorf("POLL_CADENCE and RETRY_DELAY must be > 0")
	}
	if cfg.PollMaxCredit < 0 || cfg.PollMaxCredit > cfg.PollCadence {
		return nil, fmt.Errorf("POLL_MAX_CREDIT must be between 0 and POLL_CADENCE")
	}
	if cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if cfg.VATSIMStatusURL == "" && cfg.VATSIMDataURL == "" {
		return nil, fmt.Errorf("one of VATSIM_STATUS_URL or VATSIM_DATA_URL is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getFloatEnv(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getLogLevelEnv(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}

	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultVal
	}
}

func getCSVEnv(key string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			result = append(result, t)
		}
	}
	return result
}
