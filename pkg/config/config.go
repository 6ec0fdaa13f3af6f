package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/imgcheck/pkg/walker"
)

type Config struct {
	// Scan Settings
	Extensions        []string `yaml:"extensions"`
	Threshold         int      `yaml:"threshold"`
	ContainerSuffixes []string `yaml:"container_suffixes"`
	MaxWorkers        int      `yaml:"max_workers"`
	Exclude           []string `yaml:"exclude"`

	// Output Settings
	Anxious      bool   `yaml:"anxious"`
	FailOnUnused bool   `yaml:"fail_on_unused"`
	ColorTheme   string `yaml:"color_theme"`
	ChartTitle   string `yaml:"chart_title"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	// Watch
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		Extensions:        []string{},
		Threshold:         0,
		ContainerSuffixes: []string{".imageset"},
		MaxWorkers:        1,
		Exclude:           []string{},
		Anxious:           false,
		FailOnUnused:      false,
		ColorTheme:        "auto",
		ChartTitle:        "Image usage",
		LogLevel:          "warn",
		LogFile:           "",
		WatchDebounceMS:   500,
	}
}

// DefaultPath returns the config file location.
// Follows XDG on Unix and uses AppData on Windows.
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "imgcheck", "config.yaml"), nil
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "imgcheck", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfigPathUnknown, err)
	}

	return filepath.Join(homeDir, ".config", "imgcheck", "config.yaml"), nil
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFileParse, err)
	}

	// Apply defaults for essential values if missing
	if cfg.Extensions == nil {
		cfg.Extensions = []string{}
	}
	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}
	if len(cfg.ContainerSuffixes) == 0 {
		cfg.ContainerSuffixes = []string{".imageset"}
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.ChartTitle == "" {
		cfg.ChartTitle = "Image usage"
	}
	if !isValidColorTheme(cfg.ColorTheme) {
		cfg.ColorTheme = "auto"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	for _, suffix := range c.ContainerSuffixes {
		if len(suffix) < 2 || suffix[0] != '.' {
			return fmt.Errorf("%w: %q", ErrInvalidSuffix, suffix)
		}
	}
	return walker.ValidatePatterns(c.Exclude)
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// isValidColorTheme checks if the color theme is one ui.SetTheme understands
func isValidColorTheme(theme string) bool {
	validThemes := []string{"auto", "dark", "light"}
	for _, valid := range validThemes {
		if theme == valid {
			return true
		}
	}
	return false
}
