// Package logging sets up the file-backed logger for timber.
//
// The TUI owns stdout and stderr, so all diagnostics go to a log file under
// the user's state directory. The log level can be raised with the
// TIMBER_LOG_LEVEL environment variable (trace, debug, info, warn, error).
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	defaultLogPath = "~/.local/share/timber/timber.log"
	levelEnvVar    = "TIMBER_LOG_LEVEL"
)

// Setup opens the log file and returns a configured logger plus a close
// function. Failure to open the file is not fatal: the logger falls back to
// io.Discard so the TUI always starts.
func Setup(path string) (*logrus.Logger, func()) {
	logger := logrus.New()
	logger.SetLevel(levelFromEnv())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	resolved := expand(path)
	if resolved == "" {
		logger.SetOutput(io.Discard)
		return logger, func() {}
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		logger.SetOutput(io.Discard)
		return logger, func() {}
	}

	file, err := os.OpenFile(resolved, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return logger, func() {}
	}

	logger.SetOutput(file)
	return logger, func() { _ = file.Close() }
}

func levelFromEnv() logrus.Level {
	raw := strings.TrimSpace(os.Getenv(levelEnvVar))
	if raw == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func expand(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		trimmed = defaultLogPath
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return ""
	}
	return abs
}
