package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var flagCacheRoot string

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the persisted digest cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the digest cache, forcing a full rescan on the next run",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	cacheClearCmd.Flags().StringVar(&flagCacheRoot, "project-root", ".", "project directory whose cache to clear")
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	root, err := filepath.Abs(flagCacheRoot)
	if err != nil {
		return usageError{err: fmt.Errorf("resolve --project-root %q: %w", flagCacheRoot, err)}
	}
	cacheDir := filepath.Join(root, ".codescan")
	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		pterm.Info.Printfln("No cache at %s", cacheDir)
		return nil
	}
	if err := os.RemoveAll(cacheDir); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	pterm.Success.Printfln("Cleared cache: %s", cacheDir)
	return nil
}
