package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the ~/.membuf/config.toml file. Its fields become the
// defaults that membufctl subcommands fall back to when a flag is omitted.
type Config struct {
	DefaultMin       uint64 `toml:"default_min,omitempty" json:"default_min"`
	DefaultMax       uint64 `toml:"default_max,omitempty" json:"default_max"`
	DefaultRetries   int    `toml:"default_retries,omitempty" json:"default_retries"`
	DefaultAlignment uint32 `toml:"default_alignment,omitempty" json:"default_alignment"`
	LogLevel         string `toml:"log_level,omitempty" json:"log_level"`
}

// defaults mirrors membufctl's zero-config behavior: an unbounded window,
// three placement retries, four-byte alignment, warn-level logging.
func defaults() Config {
	return Config{
		DefaultMin:       0,
		DefaultMax:       ^uint64(0),
		DefaultRetries:   3,
		DefaultAlignment: 4,
		LogLevel:         "warn",
	}
}

// configDirOverride is set by the --config-dir flag or MEMBUF_HOME env var.
var configDirOverride string

// SetConfigDir allows the CLI to pass in the --config-dir / MEMBUF_HOME value.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// Home returns the config directory path.
// Precedence: --config-dir flag / SetConfigDir > MEMBUF_HOME env > ~/.membuf
func Home() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	if v := os.Getenv("MEMBUF_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".membuf")
	}
	return filepath.Join(home, ".membuf")
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() string {
	return filepath.Join(Home(), "config.toml")
}

// EnsureDir creates the membuf home directory if it does not exist.
func EnsureDir() error {
	return os.MkdirAll(Home(), 0o755)
}

// Load reads config.toml and returns a Config struct. If the file does not
// exist, it returns the built-in defaults.
func Load() (*Config, error) {
	cfg := defaults()
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}
	return &cfg, nil
}

// Save writes the Config struct back to config.toml.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(ConfigPath(), data, 0o644)
}

// validKeys lists the keys that can be used with Get/Set.
var validKeys = map[string]bool{
	"default_min":       true,
	"default_max":       true,
	"default_retries":   true,
	"default_alignment": true,
	"log_level":         true,
}

// Get retrieves a single config value by key.
func Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key: %s", key)
	}
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return getField(cfg, key), nil
}

// Set sets a single config value by key.
func Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key: %s", key)
	}
	cfg, err := Load()
	if err != nil {
		return err
	}
	if err := setField(cfg, key, value); err != nil {
		return err
	}
	return Save(cfg)
}

func getField(cfg *Config, key string) string {
	switch key {
	case "default_min":
		return fmt.Sprintf("%d", cfg.DefaultMin)
	case "default_max":
		return fmt.Sprintf("%d", cfg.DefaultMax)
	case "default_retries":
		return fmt.Sprintf("%d", cfg.DefaultRetries)
	case "default_alignment":
		return fmt.Sprintf("%d", cfg.DefaultAlignment)
	case "log_level":
		return cfg.LogLevel
	default:
		return ""
	}
}

func setField(cfg *Config, key, value string) error {
	switch key {
	case "default_min":
		v, err := parseUint(value)
		if err != nil {
			return err
		}
		cfg.DefaultMin = v
	case "default_max":
		v, err := parseUint(value)
		if err != nil {
			return err
		}
		cfg.DefaultMax = v
	case "default_retries":
		var v int
		if _, err := fmt.Sscanf(value, "%d", &v); err != nil {
			return fmt.Errorf("default_retries must be an integer: %w", err)
		}
		cfg.DefaultRetries = v
	case "default_alignment":
		v, err := parseUint(value)
		if err != nil {
			return err
		}
		cfg.DefaultAlignment = uint32(v)
	case "log_level":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func parseUint(value string) (uint64, error) {
	var v uint64
	if _, err := fmt.Sscanf(value, "%d", &v); err != nil {
		return 0, fmt.Errorf("expected an unsigned integer, got %q: %w", value, err)
	}
	return v, nil
}
