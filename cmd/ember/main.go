// Package main implements the ember CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"golang.org/x/term"

	"ember/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ember",
	Short: "Ember language compiler and toolchain",
	Long:  `Ember is a systems language compiler exposing its semantic-analysis pipeline as a set of inspectable stages.`,
}

var (
	timeoutCancel  context.CancelFunc
	tracingCleanup func()
)

// main configures the root command (version, subcommands, persistent flags)
// and executes it, exiting 1 on any error.
func main() {
	rootCmd.Version = version.Version
	rootCmd.PersistentPreRunE = applyTimeout
	rootCmd.PersistentPostRun = cleanupTimeout

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(cleanCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().String("format", "pretty", "diagnostic output format (pretty|json|short)")
	rootCmd.PersistentFlags().Bool("timings", false, "include a phase-timing diagnostic per file")
	rootCmd.PersistentFlags().Int("max-diagnostics", 512, "maximum number of diagnostics to collect per file")
	rootCmd.PersistentFlags().Int("timeout", 30, "command timeout in seconds")
	rootCmd.PersistentFlags().String("trace-level", "off", "phase tracing verbosity (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "ring", "phase tracing storage (stream|ring|both)")
	rootCmd.PersistentFlags().String("trace-output", "-", "trace stream destination (\"-\" for stderr, or a file path)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode=ring|both")
	rootCmd.PersistentFlags().Int("trace-heartbeat", 0, "seconds between heartbeat trace events (0 disables)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to an interactive terminal, used
// to resolve "--color auto".
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// resolveColor turns the --color flag (auto|on|off) into a bool given
// whether stdout is a terminal.
func resolveColor(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		return false, err
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("unsupported --color value %q (must be auto|on|off)", mode)
	}
}

func applyTimeout(cmd *cobra.Command, _ []string) error {
	secs, err := cmd.Root().PersistentFlags().GetInt("timeout")
	if err != nil {
		return fmt.Errorf("failed to read timeout flag: %w", err)
	}
	if secs <= 0 {
		return fmt.Errorf("timeout must be greater than zero")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(secs)*time.Second)
	timeoutCancel = cancel

	ctx, stopTracing, err := setupTracing(cmd, ctx)
	if err != nil {
		cancel()
		return err
	}
	tracingCleanup = stopTracing

	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	go func() {
		<-ctx.Done()
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Fprintf(os.Stderr, "ember: command timed out after %ds\n", secs)
			os.Exit(1)
		}
	}()

	return nil
}

func cleanupTimeout(*cobra.Command, []string) {
	if tracingCleanup != nil {
		tracingCleanup()
		tracingCleanup = nil
	}
	if timeoutCancel != nil {
		timeoutCancel()
		timeoutCancel = nil
	}
}
