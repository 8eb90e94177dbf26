// Package config provides configuration defaults for bkspell, optionally
// read from a bkspell.toml file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file searched for by Find.
const FileName = "bkspell.toml"

// MaxWorkers is the cap for parallel workers.
const MaxWorkers = 8

// File represents the structure of bkspell.toml.
type File struct {
	Defaults     Defaults `toml:"defaults"`
	Dictionaries []string `toml:"dictionaries"`
}

// Defaults holds all default values.
type Defaults struct {
	Tolerance  int    `toml:"tolerance"`
	Limit      int    `toml:"limit"`
	Normalize  string `toml:"normalize"`
	Hunspell   bool   `toml:"hunspell"`
	KeepBlank  bool   `toml:"keep_blank"`
	Workers    int    `toml:"workers"`
	Metrics    bool   `toml:"metrics"`
	MetricsDir string `toml:"metrics_dir"`
	CacheDir   string `toml:"cache_dir"`
}

// Fallback returns the built-in configuration used when no file is found.
func Fallback() *File {
	return &File{
		Defaults: Defaults{
			Tolerance:  2,
			Limit:      10,
			Normalize:  "none",
			Workers:    0,
			MetricsDir: "output",
			CacheDir:   "sources",
		},
	}
}

// Load decodes the file at path on top of the fallback values, so keys
// missing from the file keep their defaults.
func Load(path string) (*File, error) {
	cfg := Fallback()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if cfg.Defaults.Tolerance < 0 {
		return nil, fmt.Errorf("config %s: tolerance must be non-negative, got %d", path, cfg.Defaults.Tolerance)
	}
	return cfg, nil
}

// Find looks for bkspell.toml in the working directory, its parents and
// next to the executable, and loads the first one found. Without a file
// it returns the fallback configuration and an empty path.
func Find() (*File, string, error) {
	paths := []string{
		FileName,
		filepath.Join("..", FileName),
		filepath.Join("..", "..", FileName),
	}

	// Also try from executable location
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(dir, FileName),
			filepath.Join(dir, "..", FileName),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			cfg, err := Load(path)
			return cfg, path, err
		}
	}

	return Fallback(), "", nil
}

// ResolveWorkers turns a configured worker count into a usable one:
// 0 or less means one per CPU, and the result is capped at MaxWorkers.
func ResolveWorkers(workers int) int {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return workers
}
