package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/javanhut/topograph/internal/colors"
)

// Config represents the effective topograph configuration
type Config struct {
	Core  CoreConfig
	Color ColorConfig
}

// CoreConfig holds core settings
type CoreConfig struct {
	Cache     bool
	CachePath string
}

// ColorConfig holds color settings
type ColorConfig struct {
	UI string // auto, always or never
}

// fileConfig is the on-disk form of one configuration level. Only keys set
// at that level are present, so a level never masks the one below it with
// defaults.
type fileConfig struct {
	Core  fileCore  `json:"core"`
	Color fileColor `json:"color"`
}

type fileCore struct {
	Cache     *bool   `json:"cache,omitempty"`
	CachePath *string `json:"cachepath,omitempty"`
}

type fileColor struct {
	UI *string `json:"ui,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			Cache: false,
		},
		Color: ColorConfig{
			UI: colors.ModeAuto,
		},
	}
}

// CacheFile returns the cache database path for a repository.
func (c *Config) CacheFile(gitDir string) string {
	if c.Core.CachePath != "" {
		return c.Core.CachePath
	}
	return filepath.Join(gitDir, "topograph.db")
}

// globalConfigPath returns the path to the global config file
func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".topographconfig"), nil
}

// repoConfigPath returns the path to the repository config file
func repoConfigPath(gitDir string) string {
	return filepath.Join(gitDir, "topograph.json")
}

// LoadConfig loads configuration from both global and repository config files.
// Repository config takes precedence over global config. An empty gitDir
// loads only the global file.
func LoadConfig(gitDir string) (*Config, error) {
	cfg := DefaultConfig()

	globalPath, err := globalConfigPath()
	if err == nil {
		if err := mergeFile(cfg, globalPath); err != nil {
			return nil, err
		}
	}

	if gitDir != "" {
		if err := mergeFile(cfg, repoConfigPath(gitDir)); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// mergeFile overlays the keys present in a config file onto cfg. A missing
// file is not an error.
func mergeFile(cfg *Config, path string) error {
	fc, err := readFile(path)
	if err != nil {
		return err
	}
	fc.apply(cfg)
	return nil
}

func readFile(path string) (*fileConfig, error) {
	fc := &fileConfig{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

func writeFile(path string, fc *fileConfig) error {
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.Core.Cache != nil {
		cfg.Core.Cache = *fc.Core.Cache
	}
	if fc.Core.CachePath != nil {
		cfg.Core.CachePath = *fc.Core.CachePath
	}
	if fc.Color.UI != nil {
		cfg.Color.UI = *fc.Color.UI
	}
}

// set validates value and records it for key (e.g. "core.cache").
func (fc *fileConfig) set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "core":
		switch field {
		case "cache":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid core.cache value: %s", value)
			}
			fc.Core.Cache = &b
		case "cachepath":
			fc.Core.CachePath = &value
		default:
			return fmt.Errorf("unknown core config field: %s", field)
		}
	case "color":
		switch field {
		case "ui":
			switch value {
			case colors.ModeAuto, colors.ModeAlways, colors.ModeNever:
				fc.Color.UI = &value
			default:
				return fmt.Errorf("invalid color.ui value: %s", value)
			}
		default:
			return fmt.Errorf("unknown color config field: %s", field)
		}
	default:
		return fmt.Errorf("unknown config section: %s", section)
	}
	return nil
}

// SetGlobalValue writes one key to the global config file, leaving every
// other key in it untouched.
func SetGlobalValue(key, value string) error {
	globalPath, err := globalConfigPath()
	if err != nil {
		return err
	}
	return setFileValue(globalPath, key, value)
}

// SetRepoValue writes one key to the repository config file, leaving every
// other key in it untouched.
func SetRepoValue(gitDir, key, value string) error {
	return setFileValue(repoConfigPath(gitDir), key, value)
}

func setFileValue(path, key, value string) error {
	fc, err := readFile(path)
	if err != nil {
		return err
	}
	if err := fc.set(key, value); err != nil {
		return err
	}
	return writeFile(path, fc)
}

func splitKey(key string) (string, string, error) {
	section, field, ok := strings.Cut(strings.ToLower(key), ".")
	if !ok {
		return "", "", fmt.Errorf("invalid config key: %s (expected format: section.key)", key)
	}
	return section, field, nil
}

// GetValue retrieves a configuration value by key (e.g., "core.cache")
func (c *Config) GetValue(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "core":
		switch field {
		case "cache":
			return strconv.FormatBool(c.Core.Cache), nil
		case "cachepath":
			return c.Core.CachePath, nil
		default:
			return "", fmt.Errorf("unknown core config field: %s", field)
		}
	case "color":
		switch field {
		case "ui":
			return c.Color.UI, nil
		default:
			return "", fmt.Errorf("unknown color config field: %s", field)
		}
	default:
		return "", fmt.Errorf("unknown config section: %s", section)
	}
}
