package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFallback(t *testing.T) {
	cfg := Fallback()

	if cfg.Defaults.Tolerance != 2 {
		t.Errorf("Tolerance = %d, want 2", cfg.Defaults.Tolerance)
	}
	if cfg.Defaults.Limit != 10 {
		t.Errorf("Limit = %d, want 10", cfg.Defaults.Limit)
	}
	if cfg.Defaults.Normalize != "none" {
		t.Errorf("Normalize = %q, want none", cfg.Defaults.Normalize)
	}
}

func TestLoad(t *testing.T) {
	content := `dictionaries = ["words.txt", "extra.txt.gz"]

[defaults]
tolerance = 3
normalize = "fold"
hunspell = true
workers = 4
`
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Defaults.Tolerance != 3 {
		t.Errorf("Tolerance = %d, want 3", cfg.Defaults.Tolerance)
	}
	if cfg.Defaults.Normalize != "fold" {
		t.Errorf("Normalize = %q, want fold", cfg.Defaults.Normalize)
	}
	if !cfg.Defaults.Hunspell {
		t.Error("Hunspell = false, want true")
	}
	if cfg.Defaults.Workers != 4 {
		t.Errorf("Workers = %d, want 4", cfg.Defaults.Workers)
	}
	// Not in the file, so the fallback survives.
	if cfg.Defaults.Limit != 10 {
		t.Errorf("Limit = %d, want 10", cfg.Defaults.Limit)
	}
	if !reflect.DeepEqual(cfg.Dictionaries, []string{"words.txt", "extra.txt.gz"}) {
		t.Errorf("Dictionaries = %v", cfg.Dictionaries)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[defaults\n", "failed to read config"},
		{"unknown key", "[defaults]\ntolerence = 2\n", "unknown key"},
		{"negative tolerance", "[defaults]\ntolerance = -1\n", "non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want it to mention %q", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of missing file succeeded, want error")
	}
}

func TestResolveWorkers(t *testing.T) {
	if got := ResolveWorkers(3); got != 3 {
		t.Errorf("ResolveWorkers(3) = %d, want 3", got)
	}
	if got := ResolveWorkers(100); got != MaxWorkers {
		t.Errorf("ResolveWorkers(100) = %d, want %d", got, MaxWorkers)
	}
	if got := ResolveWorkers(0); got < 1 || got > MaxWorkers {
		t.Errorf("ResolveWorkers(0) = %d, want 1..%d", got, MaxWorkers)
	}
}
