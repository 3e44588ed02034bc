// Package config loads timber's own settings from a TOML file.
// Credentials and region come from the standard AWS config chain, not from here.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the tunables for query execution and polling.
type Config struct {
	LookbackHours    int
	PollIntervalMS   int
	QueryTimeoutSecs int
	QueryString      string
}

const (
	defaultConfigPath   = "~/.config/timber/config.toml"
	defaultLookbackHrs  = 24
	defaultPollMS       = 250
	defaultQueryTimeout = 120
	defaultQueryString  = "fields @timestamp, @message"
)

// Load locates and parses the timber config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := defaults()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LookbackHours    int    `toml:"lookback_hours"`
		PollIntervalMS   int    `toml:"poll_interval_ms"`
		QueryTimeoutSecs int    `toml:"query_timeout_secs"`
		QueryString      string `toml:"query"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if raw.LookbackHours > 0 {
		cfg.LookbackHours = raw.LookbackHours
	}
	if raw.PollIntervalMS > 0 {
		cfg.PollIntervalMS = raw.PollIntervalMS
	}
	if raw.QueryTimeoutSecs > 0 {
		cfg.QueryTimeoutSecs = raw.QueryTimeoutSecs
	}
	if q := strings.TrimSpace(raw.QueryString); q != "" {
		cfg.QueryString = q
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		LookbackHours:    defaultLookbackHrs,
		PollIntervalMS:   defaultPollMS,
		QueryTimeoutSecs: defaultQueryTimeout,
		QueryString:      defaultQueryString,
	}
}

// Lookback returns the query lookback window as a duration.
func (c Config) Lookback() time.Duration {
	return time.Duration(c.LookbackHours) * time.Hour
}

// PollInterval returns the base poll interval as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// QueryTimeout returns the overall per-query deadline as a duration.
func (c Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSecs) * time.Second
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
