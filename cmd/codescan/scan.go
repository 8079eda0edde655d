package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mkarlsen/codescan"
	"github.com/mkarlsen/codescan/internal/categorize"
)

var (
	flagProjectRoot string
	flagIgnore      []string
	flagExclude     []string
	flagWorkers     int
	flagReport      string
	flagCache       string
	flagCategorize  bool
	flagQuiet       bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a project tree and write the aggregated report",
	Long: `Scan discovers source files under the project root, analyzes changed files
in parallel, and writes the aggregated JSON report plus the digest cache.
Files whose content is unchanged since the previous run are skipped; renamed
files are detected by digest match and carried over without re-analysis.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&flagProjectRoot, "project-root", ".", "project directory to scan")
	scanCmd.Flags().StringArrayVar(&flagIgnore, "ignore", nil, "additional directory to exclude (repeatable)")
	scanCmd.Flags().StringArrayVar(&flagExclude, "exclude", nil, "glob pattern to exclude, matched against root-relative paths (repeatable)")
	scanCmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker pool size (default: logical CPU count)")
	scanCmd.Flags().StringVar(&flagReport, "report", "", "report path (default: <root>/codescan-report.json)")
	scanCmd.Flags().StringVar(&flagCache, "cache", "", "digest cache path (default: <root>/.codescan/hashcache.json)")
	scanCmd.Flags().BoolVar(&flagCategorize, "categorize-agents", false, "annotate scanned classes with maturity and agent-type tags")
	scanCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "suppress per-file warnings")
}

// loadSettings layers an optional .codescan.yaml at the project root and
// CODESCAN_* environment variables underneath the command-line flags.
func loadSettings(cmd *cobra.Command, root string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName(".codescan")
	v.SetConfigType("yaml")
	v.AddConfigPath(root)
	v.SetEnvPrefix("codescan")
	v.AutomaticEnv()

	for key, flag := range map[string]string{
		"workers":           "workers",
		"ignore":            "ignore",
		"exclude":           "exclude",
		"report":            "report",
		"cache":             "cache",
		"categorize-agents": "categorize-agents",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read %s: %w", v.ConfigFileUsed(), err)
		}
	}
	return v, nil
}

func runScan(cmd *cobra.Command, _ []string) error {
	start := time.Now()

	root, err := filepath.Abs(flagProjectRoot)
	if err != nil {
		return usageError{err: fmt.Errorf("resolve --project-root %q: %w", flagProjectRoot, err)}
	}
	if info, serr := os.Stat(root); serr != nil || !info.IsDir() {
		return fmt.Errorf("project root not found: %s", root)
	}

	v, err := loadSettings(cmd, root)
	if err != nil {
		return err
	}

	logf := func(format string, args ...any) {
		if !flagQuiet {
			pterm.Warning.Printfln(format, args...)
		}
	}

	opts := []codescan.Option{
		codescan.WithLogf(logf),
		codescan.WithIgnoreDirs(v.GetStringSlice("ignore")...),
	}
	if workers := v.GetInt("workers"); workers > 0 {
		opts = append(opts, codescan.WithWorkers(workers))
	}
	if globs := v.GetStringSlice("exclude"); len(globs) > 0 {
		opts = append(opts, codescan.WithExcludeGlobs(globs...))
	}
	if path := v.GetString("report"); path != "" {
		opts = append(opts, codescan.WithReportPath(absAgainst(root, path)))
	}
	if path := v.GetString("cache"); path != "" {
		opts = append(opts, codescan.WithCachePath(absAgainst(root, path)))
	}

	scanner, err := codescan.New(root, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stats, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	if v.GetBool("categorize-agents") {
		categorize.Apply(scanner.Report())
		if err := scanner.Report().SaveTo(scanner.ReportPath()); err != nil {
			return fmt.Errorf("rewrite categorized report: %w", err)
		}
	}

	pterm.Success.Printfln("Scanned %s in %s", root, time.Since(start).Round(time.Millisecond))
	pterm.Info.Printfln("%d discovered, %d analyzed, %d unchanged, %d moved, %d removed, %d failed",
		stats.Discovered, stats.Analyzed, stats.Unchanged, stats.Moved, stats.Removed, stats.Failed)
	fmt.Fprintf(os.Stderr, "Report: %s\n", scanner.ReportPath())
	return nil
}

// absAgainst anchors a possibly relative configured path at the project root.
func absAgainst(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
