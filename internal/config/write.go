package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the vibe-reflect config directory path.
// Uses $XDG_CONFIG_HOME/vibe-reflect if set, otherwise ~/.config/vibe-reflect.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// WriteDefault writes a starter config.toml listing repos.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(repos []string) (string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(path); err == nil {
		return path, nil // already exists
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}

	quoted := make([]string, 0, len(repos))
	for _, r := range repos {
		quoted = append(quoted, fmt.Sprintf("%q", CompressHome(r)))
	}

	content := fmt.Sprintf(`data_dir = "~/.local/share/vibe-reflect"
repos = [%s]
log_level = "warn"

[memory]
enabled = true
host = "localhost"
port = 37777
db_path = "~/.claude-mem/claude-mem.db"
timeout_ms = 2000

[git]
max_commits = 10000

[sampling]
threshold = 200

[archive]
enabled = true
`, strings.Join(quoted, ", "))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}

	return path, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
