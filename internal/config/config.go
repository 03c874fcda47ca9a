package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth. The API is open when empty.
	APIKey string

	// Upload limits
	MaxUploadBytes int64

	// Segmentation
	SummaryLineLimit int
	FallbackYear     int
	GroupsFile       string

	// Output
	OutputFormat string

	// Conversion state
	StatsWindow time.Duration
	ResultTTL   time.Duration

	// PDF
	PDFFallbackPdftotext bool

	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("READINGLIST_API_KEY"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		SummaryLineLimit: envInt("SUMMARY_LINE_LIMIT", 150),
		FallbackYear:     envInt("FALLBACK_YEAR", 2025),
		GroupsFile:       os.Getenv("GROUPS_FILE"),

		OutputFormat: NormalizeFormat(envOr("OUTPUT_FORMAT", "ts")),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),
		ResultTTL:   envDuration("RESULT_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.SummaryLineLimit <= 0 {
		cfg.SummaryLineLimit = 150
	}
	if cfg.FallbackYear <= 0 {
		cfg.FallbackYear = 2025
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks settings shared by every command.
func (c Config) Validate() error {
	switch NormalizeFormat(c.OutputFormat) {
	case "ts", "json", "sqlite":
	default:
		return fmt.Errorf("OUTPUT_FORMAT must be ts, json or sqlite, got %q", c.OutputFormat)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.GroupsFile != "" {
		if _, err := os.Stat(c.GroupsFile); err != nil {
			return fmt.Errorf("GROUPS_FILE: %w", err)
		}
	}
	return nil
}

// NormalizeFormat maps an output format name or alias onto ts, json or
// sqlite. Unknown names come back lowercased for error messages.
func NormalizeFormat(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "ts", "typescript":
		return "ts"
	case "sqlite", "sqlite3", "db":
		return "sqlite"
	}
	return s
}

// ValidateServer additionally checks settings only the HTTP server uses.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return lvl, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
