package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.CSV.Delimiter != "," {
		t.Errorf("CSV.Delimiter = %q, want %q", cfg.CSV.Delimiter, ",")
	}
	if cfg.CSV.QuoteRune() != '|' {
		t.Errorf("CSV.QuoteRune() = %q, want %q", cfg.CSV.QuoteRune(), '|')
	}
	if cfg.CSV.RaggedPolicy != "pad" {
		t.Errorf("CSV.RaggedPolicy = %q, want %q", cfg.CSV.RaggedPolicy, "pad")
	}
	if cfg.Window.Width != 1200 || cfg.Window.Height != 800 {
		t.Errorf("Window = %dx%d, want 1200x800", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.IO.Timeout != 30*time.Second {
		t.Errorf("IO.Timeout = %v, want 30s", cfg.IO.Timeout)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("CSVEDIT_LOG_LEVEL", "debug")
	t.Setenv("CSVEDIT_DELIMITER", ";")
	t.Setenv("CSVEDIT_QUOTE", "\"")
	t.Setenv("CSVEDIT_RAGGED_POLICY", "reject")
	t.Setenv("CSVEDIT_IO_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.CSV.DelimiterRune() != ';' {
		t.Errorf("CSV.DelimiterRune() = %q, want ';'", cfg.CSV.DelimiterRune())
	}
	if cfg.CSV.QuoteRune() != '"' {
		t.Errorf("CSV.QuoteRune() = %q, want '\"'", cfg.CSV.QuoteRune())
	}
	if cfg.CSV.RaggedPolicy != "reject" {
		t.Errorf("CSV.RaggedPolicy = %q, want %q", cfg.CSV.RaggedPolicy, "reject")
	}
	if cfg.IO.Timeout != 5*time.Second {
		t.Errorf("IO.Timeout = %v, want 5s", cfg.IO.Timeout)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad level", "CSVEDIT_LOG_LEVEL", "loud"},
		{"bad format", "CSVEDIT_LOG_FORMAT", "xml"},
		{"long delimiter", "CSVEDIT_DELIMITER", ";;"},
		{"quote equals delimiter", "CSVEDIT_QUOTE", ","},
		{"bad policy", "CSVEDIT_RAGGED_POLICY", "truncate"},
		{"tiny window", "CSVEDIT_WINDOW_WIDTH", "10"},
		{"bad duration", "CSVEDIT_IO_TIMEOUT", "soon"},
		{"zero timeout", "CSVEDIT_IO_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q expected error", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_DisabledLogLevel(t *testing.T) {
	for _, level := range []string{"disabled", "off"} {
		t.Setenv("CSVEDIT_LOG_LEVEL", level)
		if _, err := Load(); err != nil {
			t.Errorf("Load() with level %q error = %v", level, err)
		}
	}
}

func TestRead_SkipsValidation(t *testing.T) {
	t.Setenv("CSVEDIT_LOG_LEVEL", "bogus")

	cfg, err := Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted log level \"bogus\"")
	}

	cfg.Logging.Level = "debug"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() after override error = %v", err)
	}
}

func TestLoadWithDotenv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("CSVEDIT_WINDOW_WIDTH=1600\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv.Load sets variables directly; register cleanup through t.Setenv first.
	t.Setenv("CSVEDIT_WINDOW_WIDTH", "")
	os.Unsetenv("CSVEDIT_WINDOW_WIDTH")

	cfg, err := LoadWithDotenv(envFile, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("LoadWithDotenv() error = %v", err)
	}
	if cfg.Window.Width != 1600 {
		t.Errorf("Window.Width = %d, want 1600", cfg.Window.Width)
	}
}
