package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "timber.log")

	logger, closeFn := Setup(path)
	logger.Info("hello from test")
	closeFn()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Fatalf("log file missing entry: %q", string(data))
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(levelEnvVar, "debug")
	if got := levelFromEnv(); got != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", got)
	}

	t.Setenv(levelEnvVar, "not-a-level")
	if got := levelFromEnv(); got != logrus.InfoLevel {
		t.Fatalf("level = %v, want info fallback", got)
	}

	t.Setenv(levelEnvVar, "")
	if got := levelFromEnv(); got != logrus.InfoLevel {
		t.Fatalf("level = %v, want info default", got)
	}
}
