// Package config loads the kinda toolchain configuration: framework
// settings, personality defaults, transform and validation options.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the kinda framework configuration
type Config struct {
	Framework   FrameworkConfig   `yaml:"framework"`
	Personality PersonalityConfig `yaml:"personality"`
	Transform   TransformConfig   `yaml:"transform"`
	Validation  ValidationConfig  `yaml:"validation"`
}

// FrameworkConfig contains general framework settings
type FrameworkConfig struct {
	Version   string `yaml:"version"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// PersonalityConfig contains the default personality. CLI flags override
// these; the KINDA_* environment variables sit between the two.
type PersonalityConfig struct {
	Mood       string `yaml:"mood"`
	ChaosLevel int    `yaml:"chaos_level"`
	Seed       int64  `yaml:"seed"`
}

// TransformConfig contains transformer output settings
type TransformConfig struct {
	// PythonBin is the host interpreter used by `kinda run`.
	PythonBin string `yaml:"python_bin"`

	// EmitRuntime writes kinda/runtime.py next to transform output.
	EmitRuntime bool `yaml:"emit_runtime"`
}

// ValidationConfig contains composite registration check settings
type ValidationConfig struct {
	Trials    int     `yaml:"trials"`
	Tolerance float64 `yaml:"tolerance"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Framework: FrameworkConfig{
			Version:   "v1",
			LogLevel:  "info",
			LogFormat: "text",
		},
		Personality: PersonalityConfig{
			Mood:       "playful",
			ChaosLevel: 5,
			Seed:       0,
		},
		Transform: TransformConfig{
			PythonBin:   "python3",
			EmitRuntime: false,
		},
		Validation: ValidationConfig{
			Trials:    2000,
			Tolerance: 0.1,
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// If no path provided, look for kinda.yaml in current directory
	if path == "" {
		path = "kinda.yaml"
	}

	// Return default config if file doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := []byte(os.ExpandEnv(string(data)))

	if err := yaml.Unmarshal(expandedData, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// KINDA_* environment variables take priority over the config file
	cfg.applyEnv()

	return cfg, nil
}

// applyEnv overlays the KINDA_MOOD, KINDA_CHAOS_LEVEL and KINDA_SEED
// environment variables. Unparseable values are ignored so a bad
// environment never breaks config loading.
func (c *Config) applyEnv() {
	if v := os.Getenv("KINDA_MOOD"); v != "" {
		c.Personality.Mood = v
	}
	if v := os.Getenv("KINDA_CHAOS_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Personality.ChaosLevel = n
		}
	}
	if v := os.Getenv("KINDA_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Personality.Seed = n
		}
	}
}

// Save writes configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Personality.Mood {
	case "reliable", "cautious", "playful", "chaotic":
	default:
		return fmt.Errorf("personality.mood %q is invalid (reliable, cautious, playful, chaotic)", c.Personality.Mood)
	}

	if c.Personality.ChaosLevel < 1 || c.Personality.ChaosLevel > 10 {
		return fmt.Errorf("personality.chaos_level must be between 1 and 10")
	}

	if c.Transform.PythonBin == "" {
		return fmt.Errorf("transform.python_bin is required")
	}

	if c.Validation.Trials < 1 {
		return fmt.Errorf("validation.trials must be at least 1")
	}

	if c.Validation.Tolerance <= 0 || c.Validation.Tolerance > 1 {
		return fmt.Errorf("validation.tolerance must be in (0, 1]")
	}

	return nil
}
