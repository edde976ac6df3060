package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ember/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the persistent analysis cache",
	Long: `clean drops every entry from the on-disk module cache (internal/driver's
content-addressed cache of module analysis results). This toolchain has no
local build-artifact directory to remove; the cache is the only persistent
state a build leaves behind.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenDiskCache("ember")
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
	return nil
}
