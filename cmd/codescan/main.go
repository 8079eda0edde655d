package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Exit codes: 0 success, 1 scan failure, 2 invalid arguments.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// usageError marks argument and flag problems so main can exit with 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		if _, ok := err.(usageError); ok {
			os.Exit(exitUsage)
		}
		os.Exit(exitError)
	}
	os.Exit(exitOK)
}

var rootCmd = &cobra.Command{
	Use:           "codescan",
	Short:         "Cache-aware structural scanner for multi-language source trees",
	Long:          "Codescan walks a source tree, extracts functions, classes, and route declarations per file with tree-sitter, skips files unchanged since the last run, and writes one aggregated JSON report.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run — prints help by default.
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err: fmt.Errorf("%s: %w", cmd.Name(), err)}
	})

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(cacheCmd)
}
