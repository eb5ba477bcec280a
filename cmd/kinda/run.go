package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jihwankim/kinda-lang/pkg/construct"
	"github.com/jihwankim/kinda-lang/pkg/personality"
	"github.com/jihwankim/kinda-lang/pkg/transform"
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Args:  cobra.ExactArgs(1),
	Short: "Transform a .knda file and execute it",
	Long: `Run transforms a kinda source file, materializes the runtime module for
the helpers it uses, and executes the result with the host interpreter.

The personality (mood, chaos level, seed) is passed to the child process
through the KINDA_* environment, so a fixed seed reproduces a run exactly.`,
	RunE: runProgram,
}

func init() {
	addPersonalityFlags(runCmd)
	runCmd.Flags().Bool("keep", false, "keep the generated sources instead of deleting them")
}

func runProgram(cmd *cobra.Command, args []string) error {
	keep, _ := cmd.Flags().GetBool("keep")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	mood, chaosLevel, seed, err := resolvePersonality(cmd, cfg)
	if err != nil {
		return err
	}
	p := personality.Configure(mood, chaosLevel, seed)
	logger.Debug("Personality configured", "mood", mood, "chaos_level", chaosLevel, "seed", p.Seed())

	src, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	t := transform.New(construct.Builtin(), logger)
	result := t.Transform(string(src))
	for _, d := range result.Diagnostics {
		if d.IsError() {
			logger.Error(d.String(), "file", args[0])
		} else {
			logger.Warn(d.String(), "file", args[0])
		}
	}
	if result.HasErrors() {
		return errTransformFailed
	}

	workDir, err := os.MkdirTemp("", "kinda-run-")
	if err != nil {
		return fmt.Errorf("failed to create work dir: %w", err)
	}
	if keep {
		logger.Info("Keeping generated sources", "dir", workDir)
	} else {
		defer os.RemoveAll(workDir)
	}

	program := filepath.Join(workDir, "program.py")
	if err := os.WriteFile(program, []byte(result.Output), 0644); err != nil {
		return fmt.Errorf("failed to write program: %w", err)
	}
	if len(result.UsedHelpers) > 0 {
		if err := writeRuntimeModule(workDir, result.UsedHelpers); err != nil {
			return err
		}
	}

	// The child reads its personality from the environment; seeding it
	// with the parent's resolved seed makes runs reproducible end to end.
	child := exec.Command(cfg.Transform.PythonBin, program)
	child.Dir = workDir
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr
	child.Stdin = os.Stdin
	child.Env = append(os.Environ(),
		"KINDA_MOOD="+string(mood),
		"KINDA_CHAOS_LEVEL="+strconv.Itoa(chaosLevel),
		"KINDA_SEED="+strconv.FormatInt(p.Seed(), 10),
	)

	logger.Debug("Executing transformed program", "interpreter", cfg.Transform.PythonBin, "program", program)
	if err := child.Run(); err != nil {
		return fmt.Errorf("program execution failed: %w", err)
	}
	return nil
}
