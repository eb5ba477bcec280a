package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	version = "dev" // Will be set by build flags
)

// errTransformFailed marks a run that produced transform error diagnostics, so
// main can distinguish exit code 1 (transformation error) from 2
// (invocation error).
var errTransformFailed = errors.New("transformation failed")

var rootCmd = &cobra.Command{
	Use:   "kinda",
	Short: "A programming language for people who aren't totally sure",
	Long: `Kinda augments Python with fuzzy constructs: probabilistic conditionals,
noisy numeric literals, approximate comparisons and probabilistic loops,
all parameterized by a global personality (mood, chaos level, seed).

Write .py.knda files with constructs like ~sometimes, ~kinda int and
~sorta print, then transform them to plain Python or run them directly.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./kinda.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(examplesCmd)
	rootCmd.AddCommand(syntaxCmd)
}

// Commands are defined in separate files:
// - runCmd in run.go
// - transformCmd in transform.go
// - examplesCmd and syntaxCmd in docs.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errTransformFailed) {
			os.Exit(1)
		}
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(2)
	}
}
