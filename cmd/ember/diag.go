package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ember/internal/diag"
	"ember/internal/diagfmt"
)

var diagCmd = &cobra.Command{
	Use:   "diag <entry>",
	Short: "Run the analysis pipeline over an entry file and print diagnostics",
	Long: `diag loads <entry>'s pre-parsed AST fixture (<entry>.ast.json, since
this toolchain has no parser front-end wired in) and runs the full semantic
analysis pipeline over it, printing every diagnostic and, optionally, the
resolved scope/definition tree.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiag,
}

func init() {
	diagCmd.Flags().Bool("semantics", false, "include the resolved scope/definition tree in --format=json output")
}

// errPipelineFoundErrors signals a non-zero exit after diagfmt has already
// printed every diagnostic; cobra must not also print this error's text.
var errPipelineFoundErrors = errors.New("ember: analysis reported errors")

func runDiag(cmd *cobra.Command, args []string) error {
	entry := args[0]

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
	wantSemantics, err := cmd.Flags().GetBool("semantics")
	if err != nil {
		return err
	}
	useColor, err := resolveColor(cmd)
	if err != nil {
		return err
	}

	result, fs, interner, err := runDiagnose(cmd.Context(), entry, maxDiagnostics, timings)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "json":
		if wantSemantics && len(result.Files) > 0 {
			return diagfmt.JSONWithSemantics(cmd.OutOrStdout(), result.Bag, fs, diagfmt.JSONOpts{
				IncludePositions: true,
				IncludeNotes:     true,
				IncludeSemantics: true,
			}, result.Files[0].Module, interner)
		}
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
	return nil
}
