package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "prefs.toml"))
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestLoad_CorruptFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = [not toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := Load(path)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Solarized"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	p := Load(path)
	if p.Theme != "Solarized" {
		t.Fatalf("Theme = %q, want Solarized", p.Theme)
	}
}

func TestLoad_BlankThemeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = \"  \"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := Load(path)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
}
