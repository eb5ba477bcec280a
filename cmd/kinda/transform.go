package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jihwankim/kinda-lang/pkg/construct"
	"github.com/jihwankim/kinda-lang/pkg/transform"
)

var transformCmd = &cobra.Command{
	Use:   "transform <file>",
	Args:  cobra.ExactArgs(1),
	Short: "Translate a .knda file to plain Python",
	Long: `Transform reads a kinda source file, rewrites every fuzzy construct to a
call into the kinda runtime, and writes the resulting Python source.

The transformation itself is fully deterministic; all randomness happens
when the transformed program runs.`,
	RunE: runTransform,
}

func init() {
	transformCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	transformCmd.Flags().Bool("emit-runtime", false, "also write kinda/runtime.py next to the output file")
}

func runTransform(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")
	emitRuntime, _ := cmd.Flags().GetBool("emit-runtime")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	// The config default applies when the flag is not given explicitly.
	if !cmd.Flags().Changed("emit-runtime") {
		emitRuntime = cfg.Transform.EmitRuntime
	}

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

	if outPath == "" {
		fmt.Print(result.Output)
	} else {
		if err := os.WriteFile(outPath, []byte(result.Output), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("Transform complete", "output", outPath, "helpers", len(result.UsedHelpers))
	}

	if emitRuntime && len(result.UsedHelpers) > 0 {
		dir := "."
		if outPath != "" {
			dir = filepath.Dir(outPath)
		}
		if err := writeRuntimeModule(dir, result.UsedHelpers); err != nil {
			return err
		}
	}

	if result.HasErrors() {
		return errTransformFailed
	}
	return nil
}

// writeRuntimeModule materializes the kinda Python package (runtime.py
// plus package marker) under dir.
func writeRuntimeModule(dir string, helpers []string) error {
	pkgDir := filepath.Join(dir, "kinda")
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		return fmt.Errorf("failed to create runtime package dir: %w", err)
	}
	runtimeSrc, err := transform.EmitRuntime(helpers)
	if err != nil {
		return fmt.Errorf("failed to assemble runtime module: %w", err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "__init__.py"), []byte(""), 0644); err != nil {
		return fmt.Errorf("failed to write package marker: %w", err)
	}
	if err := os.WriteFile(filepath.Join(pkgDir, "runtime.py"), []byte(runtimeSrc), 0644); err != nil {
		return fmt.Errorf("failed to write runtime module: %w", err)
	}
	return nil
}
