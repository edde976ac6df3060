package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ember/internal/version"
)

type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show ember build fingerprints",
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		v := strings.TrimSpace(version.Version)
		if v == "" {
			v = "dev"
		}

		switch strings.ToLower(format) {
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(versionPayload{
				Tool:      "ember",
				Version:   v,
				GitCommit: strings.TrimSpace(version.GitCommit),
				BuildDate: strings.TrimSpace(version.BuildDate),
			})
		case "pretty", "":
			renderVersionPretty(cmd.OutOrStdout(), v)
			return nil
		default:
			return fmt.Errorf("unsupported --format value %q (must be pretty or json)", format)
		}
	},
}

func renderVersionPretty(out io.Writer, v string) {
	nameColor := color.New(color.FgCyan, color.Bold)
	fmt.Fprintf(out, "%s %s\n", nameColor.Sprint("ember"), v)
	if c := strings.TrimSpace(version.GitCommit); c != "" {
		fmt.Fprintf(out, "commit: %s\n", c)
	}
	if d := strings.TrimSpace(version.BuildDate); d != "" {
		fmt.Fprintf(out, "built:  %s\n", d)
	}
}
