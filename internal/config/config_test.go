package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LookbackHours != defaultLookbackHrs {
		t.Fatalf("LookbackHours = %d, want %d", cfg.LookbackHours, defaultLookbackHrs)
	}
	if cfg.PollIntervalMS != defaultPollMS {
		t.Fatalf("PollIntervalMS = %d, want %d", cfg.PollIntervalMS, defaultPollMS)
	}
	if cfg.QueryString != defaultQueryString {
		t.Fatalf("QueryString = %q, want %q", cfg.QueryString, defaultQueryString)
	}
}

func TestLoad_ParsesValuesAndIgnoresZeroes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "lookback_hours = 48\npoll_interval_ms = 500\nquery_timeout_secs = 0\nquery = \"fields @timestamp, @message | limit 500\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LookbackHours != 48 {
		t.Fatalf("LookbackHours = %d, want 48", cfg.LookbackHours)
	}
	if cfg.PollIntervalMS != 500 {
		t.Fatalf("PollIntervalMS = %d, want 500", cfg.PollIntervalMS)
	}
	// Zero in the file falls back to the default.
	if cfg.QueryTimeoutSecs != defaultQueryTimeout {
		t.Fatalf("QueryTimeoutSecs = %d, want %d", cfg.QueryTimeoutSecs, defaultQueryTimeout)
	}
	if cfg.QueryString != "fields @timestamp, @message | limit 500" {
		t.Fatalf("QueryString = %q", cfg.QueryString)
	}
}

func TestLoad_BadTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("lookback_hours = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded on invalid TOML, want error")
	}
}

func TestDurations(t *testing.T) {
	cfg := Config{LookbackHours: 2, PollIntervalMS: 250, QueryTimeoutSecs: 90}
	if cfg.Lookback() != 2*time.Hour {
		t.Fatalf("Lookback = %v", cfg.Lookback())
	}
	if cfg.PollInterval() != 250*time.Millisecond {
		t.Fatalf("PollInterval = %v", cfg.PollInterval())
	}
	if cfg.QueryTimeout() != 90*time.Second {
		t.Fatalf("QueryTimeout = %v", cfg.QueryTimeout())
	}
}
