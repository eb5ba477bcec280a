package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jihwankim/kinda-lang/pkg/config"
	"github.com/jihwankim/kinda-lang/pkg/personality"
	"github.com/jihwankim/kinda-lang/pkg/reporting"
)

// loadConfig loads the configuration from file, falling back to defaults
// plus the KINDA_* environment when no file exists.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the CLI logger from config plus the --verbose flag.
// Logs go to stderr so transformed source on stdout stays clean.
func newLogger(cfg *config.Config) *reporting.Logger {
	level := reporting.LogLevel(cfg.Framework.LogLevel)
	if verbose {
		level = reporting.LogLevelDebug
	}
	return reporting.NewLogger(reporting.LoggerConfig{
		Level:  level,
		Format: reporting.LogFormat(cfg.Framework.LogFormat),
		Output: os.Stderr,
	})
}

// addPersonalityFlags registers the personality flags on a command; only
// run uses them, since transform is deterministic.
func addPersonalityFlags(cmd *cobra.Command) {
	cmd.Flags().String("mood", "", "personality mood (reliable, cautious, playful, chaotic)")
	cmd.Flags().Int("chaos-level", 0, "chaos amplifier 1-10")
	cmd.Flags().Int64("seed", 0, "random seed for reproducibility (0 = auto)")
}

// resolvePersonality merges config defaults with CLI flag overrides and
// returns the validated settings.
func resolvePersonality(cmd *cobra.Command, cfg *config.Config) (personality.Mood, int, int64, error) {
	moodStr := cfg.Personality.Mood
	chaosLevel := cfg.Personality.ChaosLevel
	seed := cfg.Personality.Seed

	if v, _ := cmd.Flags().GetString("mood"); v != "" {
		moodStr = v
	}
	if v, _ := cmd.Flags().GetInt("chaos-level"); v != 0 {
		chaosLevel = v
	}
	if v, _ := cmd.Flags().GetInt64("seed"); v != 0 {
		seed = v
	}

	mood, err := personality.ParseMood(moodStr)
	if err != nil {
		return "", 0, 0, err
	}
	if chaosLevel < 1 || chaosLevel > 10 {
		return "", 0, 0, fmt.Errorf("chaos level %d out of range [1, 10]", chaosLevel)
	}
	return mood, chaosLevel, seed, nil
}
