// Package config loads and saves the note-app's YAML configuration,
// parsed the way the teacher's workspace config loader parses its own
// YAML (gopkg.in/yaml.v3), plus the on-disk path helpers for config,
// theme, and cache directories described in spec section 6.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the note-app's persisted settings.
type Config struct {
	NotesDir  string `yaml:"notes_dir"`
	Theme     string `yaml:"theme"`
	CacheRoot string `yaml:"cache_root,omitempty"`
}

// Default returns the out-of-the-box config: notes under the user's
// home directory, the built-in default theme, no cache-root override.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		NotesDir: filepath.Join(home, "notes"),
		Theme:    "default",
	}
}

// Dir returns the config directory: "$XDG_CONFIG_HOME/ekphos" or
// "~/.config/ekphos" if unset.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "ekphos"), nil
}

// Path returns the config file path, "<config dir>/config.yaml".
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// ThemesDir returns the themes subdirectory under the config directory.
func ThemesDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "themes"), nil
}

// CacheDir returns the cache root: the config's override if set,
// otherwise the OS default user cache directory.
func CacheDir(cfg Config) (string, error) {
	if cfg.CacheRoot != "" {
		return cfg.CacheRoot, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return base, nil
}

// Load reads and parses path, returning Default() if the file doesn't
// exist yet. A parse failure is reported rather than silently
// defaulted, since a corrupt config (unlike a missing one) likely means
// user data loss risk elsewhere.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.NotesDir == "" {
		cfg.NotesDir = Default().NotesDir
	}
	if cfg.Theme == "" {
		cfg.Theme = Default().Theme
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Reset deletes the config file and the themes directory, so the next
// Load/theme-load regenerates defaults, matching the CLI's --reset flag.
func Reset() error {
	cfgPath, err := Path()
	if err != nil {
		return err
	}
	if err := os.Remove(cfgPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove config: %w", err)
	}
	themesDir, err := ThemesDir()
	if err != nil {
		return err
	}
	if err := os.RemoveAll(themesDir); err != nil {
		return fmt.Errorf("remove themes dir: %w", err)
	}
	return nil
}

// LastNotePath returns the path of "<cache_root>/ekphos/last_note",
// storing the last-opened absolute note path.
func LastNotePath(cacheRoot string) string {
	return filepath.Join(cacheRoot, "ekphos", "last_note")
}

// SaveLastNote persists the last-opened note path.
func SaveLastNote(cacheRoot, notePath string) error {
	p := LastNotePath(cacheRoot)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	return os.WriteFile(p, []byte(notePath), 0o644)
}

// LoadLastNote reads the last-opened note path, "" if none recorded.
func LoadLastNote(cacheRoot string) string {
	data, err := os.ReadFile(LastNotePath(cacheRoot))
	if err != nil {
		return ""
	}
	return string(data)
}

// CleanCache deletes the search index cache for every notes directory
// under the cache root, matching the CLI's --clean-cache flag.
func CleanCache(cacheRoot string) error {
	dir := filepath.Join(cacheRoot, "ekphos")
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clean cache: %w", err)
	}
	return nil
}
