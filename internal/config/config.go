package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "vibe-reflect"

// Config holds all vibe-reflect configuration.
type Config struct {
	DataDir  string   `toml:"data_dir"`
	Repos    []string `toml:"repos"`
	LogLevel string   `toml:"log_level"`

	Memory   MemoryConfig   `toml:"memory"`
	Git      GitConfig      `toml:"git"`
	Sampling SamplingConfig `toml:"sampling"`
	Archive  ArchiveConfig  `toml:"archive"`
}

// MemoryConfig locates the claude-mem worker API and database.
type MemoryConfig struct {
	Enabled   bool   `toml:"enabled"`
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	DBPath    string `toml:"db_path"`
	TimeoutMS int    `toml:"timeout_ms"`
}

type GitConfig struct {
	MaxCommits int `toml:"max_commits"`
}

type SamplingConfig struct {
	Threshold int `toml:"threshold"`
}

type ArchiveConfig struct {
	Enabled bool `toml:"enabled"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:  "~/.local/share/vibe-reflect",
		LogLevel: "warn",
		Memory: MemoryConfig{
			Enabled:   true,
			Host:      "localhost",
			Port:      37777,
			DBPath:    "~/.claude-mem/claude-mem.db",
			TimeoutMS: 2000,
		},
		Git: GitConfig{
			MaxCommits: 10000,
		},
		Sampling: SamplingConfig{
			Threshold: 200,
		},
		Archive: ArchiveConfig{
			Enabled: true,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	// Expand ~ in paths
	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Memory.DBPath = expandHome(cfg.Memory.DBPath)
	for i, r := range cfg.Repos {
		cfg.Repos[i] = expandHome(r)
	}

	return cfg, nil
}

// Path returns the config file that Load would read, or "" if none exists.
func Path() string {
	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, appName, "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// Timeout returns the memory API timeout.
func (m MemoryConfig) Timeout() time.Duration {
	if m.TimeoutMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(m.TimeoutMS) * time.Millisecond
}

// ReportsDir returns the directory for Markdown reports.
func (c Config) ReportsDir() string {
	return filepath.Join(c.DataDir, "reports")
}

// ArchiveDir returns the directory for archived dialog sessions.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

// ProfilePath returns the profile document path.
func (c Config) ProfilePath() string {
	return filepath.Join(c.DataDir, "profile.json")
}
