package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/readinglist/internal/reading"
	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "READINGLIST_API_KEY", "MAX_UPLOAD_BYTES", "SUMMARY_LINE_LIMIT",
		"FALLBACK_YEAR", "GROUPS_FILE", "OUTPUT_FORMAT", "STATS_WINDOW", "RESULT_TTL", "PDF_FALLBACK_PDFTOTEXT", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	want := Config{
		Port:                 "8090",
		MaxUploadBytes:       10485760,
		SummaryLineLimit:     150,
		FallbackYear:         2025,
		OutputFormat:         "ts",
		StatsWindow:          time.Hour,
		ResultTTL:            time.Hour,
		PDFFallbackPdftotext: true,
		LogLevel:             "info",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("READINGLIST_API_KEY", "secret")
	t.Setenv("SUMMARY_LINE_LIMIT", "80")
	t.Setenv("FALLBACK_YEAR", "1999")
	t.Setenv("STATS_WINDOW", "10m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Port != "9000" || cfg.APIKey != "secret" {
		t.Errorf("unexpected port/key: %q %q", cfg.Port, cfg.APIKey)
	}
	if cfg.SummaryLineLimit != 80 || cfg.FallbackYear != 1999 {
		t.Errorf("unexpected segmentation settings: %d %d", cfg.SummaryLineLimit, cfg.FallbackYear)
	}
	if cfg.StatsWindow != 10*time.Minute {
		t.Errorf("expected 10m stats window, got %s", cfg.StatsWindow)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %s", cfg.SlogLevel())
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SUMMARY_LINE_LIMIT", "-5")
	t.Setenv("FALLBACK_YEAR", "soon")
	t.Setenv("MAX_UPLOAD_BYTES", "0")

	cfg := Load()
	if cfg.SummaryLineLimit != 150 {
		t.Errorf("expected limit 150, got %d", cfg.SummaryLineLimit)
	}
	if cfg.FallbackYear != 2025 {
		t.Errorf("expected year 2025, got %d", cfg.FallbackYear)
	}
	if cfg.MaxUploadBytes != 10485760 {
		t.Errorf("expected default upload limit, got %d", cfg.MaxUploadBytes)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Port: "8090", OutputFormat: "json", LogLevel: "info"}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"ok", func(*Config) {}, ""},
		{"format", func(c *Config) { c.OutputFormat = "xml" }, "OUTPUT_FORMAT"},
		{"format alias", func(c *Config) { c.OutputFormat = "TypeScript" }, ""},
		{"sqlite alias", func(c *Config) { c.OutputFormat = "db" }, ""},
		{"level", func(c *Config) { c.LogLevel = "loud" }, "LOG_LEVEL"},
		{"groups file", func(c *Config) { c.GroupsFile = "/does/not/exist.yaml" }, "GROUPS_FILE"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNormalizeFormat(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ts", "ts"},
		{"TypeScript", "ts"},
		{" json ", "json"},
		{"SQLite3", "sqlite"},
		{"db", "sqlite"},
		{"XML", "xml"},
	}
	for _, tc := range tests {
		if got := NormalizeFormat(tc.in); got != tc.want {
			t.Errorf("NormalizeFormat(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestLoad_FormatAlias(t *testing.T) {
	t.Setenv("OUTPUT_FORMAT", "typescript")
	if cfg := Load(); cfg.OutputFormat != "ts" {
		t.Errorf("expected ts, got %q", cfg.OutputFormat)
	}
}

func TestValidateServer_Port(t *testing.T) {
	c := Config{Port: "http", OutputFormat: "ts", LogLevel: "info"}
	if err := c.ValidateServer(); err == nil {
		t.Fatal("expected error for non-numeric port")
	}
	c.Port = "8090"
	if err := c.ValidateServer(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.yaml")
	data := `
1:
  slug: foundations
  title: Foundations of Social Friction
  subtitle: Face-to-Face Interaction
  long_description: Core theories.
  theme_tags: [Sociology, Face-work]
3:
  slug: theory-of-mind
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := LoadGroups(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[int]reading.Group{
		1: {
			Slug:            "foundations",
			Title:           "Foundations of Social Friction",
			Subtitle:        "Face-to-Face Interaction",
			LongDescription: "Core theories.",
			ThemeTags:       []string{"Sociology", "Face-work"},
		},
		3: {Slug: "theory-of-mind"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadGroups_Errors(t *testing.T) {
	if g, err := LoadGroups(""); err != nil || g != nil {
		t.Errorf("expected nil groups for empty path, got %v %v", g, err)
	}
	if _, err := LoadGroups(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := ParseGroups([]byte("0:\n  slug: zero\n")); err == nil {
		t.Error("expected error for section 0")
	}
	if _, err := ParseGroups([]byte("- not a map")); err == nil {
		t.Error("expected error for a list document")
	}
}
