package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"unitdesk/internal/coords"
	"unitdesk/internal/schema"
)

type Config struct {
	Port        string
	LogLevel    string
	JWTSecret   string
	CORSOrigins []string

	DB DBConfig

	// Canvas is the editing canvas size at zoom 1, in pixels.
	Canvas      coords.PageSize
	Paper       coords.PageSize
	FieldBounds schema.FieldBounds

	SessionIdleTimeout time.Duration
	SessionSweep       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Warnings collects what Load ignored or fell back on. Load runs before
	// the logger is configured, so the caller logs these afterwards.
	Warnings []string
}

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	var w warnings
	if err := godotenv.Load(); err != nil {
		w.add("No .env file found, using environment variables from OS")
	}
	getFloat := w.getFloat
	getDuration := w.getDuration
	getRange := w.getRange

	bounds := schema.DefaultFieldBounds()
	bounds.Width = getRange("FIELD_WIDTH", bounds.Width)
	bounds.Height = getRange("FIELD_HEIGHT", bounds.Height)

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getList("CORS_ORIGINS"),
		DB: DBConfig{
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "unitdesk"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Canvas: coords.PageSize{
			Name:   "canvas",
			Width:  getFloat("CANVAS_WIDTH", 794),
			Height: getFloat("CANVAS_HEIGHT", 1123),
		},
		Paper:              coords.PaperByName(getEnv("PRINT_PAPER", "A4")),
		FieldBounds:        bounds,
		SessionIdleTimeout: getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SessionSweep:       getEnv("SESSION_SWEEP", "@every 1m"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            int(getFloat("REDIS_DB", 0)),
		CacheTTL:           getDuration("CACHE_TTL", 10*time.Minute),
	}
	cfg.Warnings = w
	return cfg
}

type warnings []string

func (w *warnings) add(format string, args ...any) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (w *warnings) getFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		w.add("Ignoring invalid %s=%q", key, v)
		return def
	}
	return f
}

func (w *warnings) getDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		w.add("Ignoring invalid %s=%q", key, v)
		return def
	}
	return d
}

func getList(key string) []string {
	var out []string
	for _, s := range strings.Split(getEnv(key, ""), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// getRange reads KEY_MIN and KEY_MAX. A pair with min above max is ignored.
func (w *warnings) getRange(key string, def schema.Range) schema.Range {
	r := schema.Range{Min: w.getFloat(key+"_MIN", def.Min), Max: w.getFloat(key+"_MAX", def.Max)}
	if r.Min > r.Max {
		w.add("Ignoring %s bounds: min %v above max %v", key, r.Min, r.Max)
		return def
	}
	return r
}
