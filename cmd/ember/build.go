package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ember/internal/diag"
	"ember/internal/diagfmt"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Analyze the project's entry point and report diagnostics",
	Long: `build resolves the project manifest (ember.toml), loads the entry
point's AST fixture, and runs the analysis pipeline over it. There is no
code generator in this toolchain, so build produces diagnostics only — it
never writes an artifact.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipelineCommand(cmd, "build")
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Analyze the project's entry point without producing an artifact",
	Long: `check is equivalent to build: this toolchain has no code generator,
so there is no artifact-producing step for check to skip.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipelineCommand(cmd, "check")
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze the project's entry point and report that execution is out of scope",
	Long: `run analyzes the project the same way build does. Executing the
result requires a code generator or VM, which this toolchain does not
implement (spec §1 Non-goals), so run stops after analysis and reports
that executing the program is unsupported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPipelineCommand(cmd, "run")
	},
}

// runPipelineCommand is shared by build/check/run: every one of them loads
// the manifest, resolves its entry file, runs the analysis pipeline, and
// reports diagnostics the same way. Only the trailing message differs.
func runPipelineCommand(cmd *cobra.Command, verb string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	m, ok, err := loadManifest(wd)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(noManifestMessage)
	}

	entryRel, err := m.entryPath()
	if err != nil {
		return err
	}
	entry := filepath.Join(m.Root, entryRel)

	maxDiagnostics, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	timings, err := cmd.Flags().GetBool("timings")
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	useColor, err := resolveColor(cmd)
	if err != nil {
		return err
	}

	result, fs, _, err := runDiagnose(cmd.Context(), entry, maxDiagnostics, timings)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "json":
		if err := diagfmt.JSON(cmd.OutOrStdout(), result.Bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
		}); err != nil {
			return err
		}
	case "pretty", "":
		diagfmt.Pretty(cmd.OutOrStdout(), result.Bag, fs, diagfmt.PrettyOpts{
			Color:     useColor,
			Context:   1,
			ShowNotes: true,
		})
	case "short":
		fmt.Fprintln(cmd.OutOrStdout(), diag.FormatShortDiagnostics(result.Bag.Items(), fs, true))
	default:
		return cmdErrorf("unsupported --format value %q (must be pretty, json, or short)", format)
	}

	if result.Bag.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errPipelineFoundErrors
	}

	if verb == "run" {
		fmt.Fprintln(cmd.OutOrStdout(), "ember: analysis passed, but running the program requires a code generator or VM, which this toolchain does not implement")
	}
	return nil
}
