package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/pymetrics/internal/cache"
	"github.com/panbanda/pymetrics/internal/fileproc"
	"github.com/panbanda/pymetrics/internal/output"
	"github.com/panbanda/pymetrics/internal/progress"
	"github.com/panbanda/pymetrics/internal/scanner"
	"github.com/panbanda/pymetrics/internal/service/analysis"
	"github.com/panbanda/pymetrics/pkg/analyzer"
	"github.com/panbanda/pymetrics/pkg/config"
)

// errNoFiles is returned when the given paths hold no Python sources.
var errNoFiles = errors.New("no Python files found")

// loadConfig loads the file named by --config, or the discovered config
// file, and validates it.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.LoadOrDefault()
	if path := getTrailingFlag(c, "config", "c", ""); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// newFormatter builds the formatter selected by --format and --output,
// falling back to the config's output section.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	format := getTrailingFlag(c, "format", "f", cfg.Output.Format)
	return output.NewFormatter(output.ParseFormat(format), getTrailingFlag(c, "output", "o", ""), cfg.Output.Color)
}

// runAnalysis scans the command's paths and runs every metric over the
// files found. Files that fail to parse are reported on stderr when
// --verbose is set and otherwise counted.
func runAnalysis(c *cli.Context, cfg *config.Config) (*analysis.Result, error) {
	files, err := scanner.NewScanner(cfg).ScanPaths(getPaths(c))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errNoFiles
	}

	svc := analysis.New(analysis.WithConfig(cfg), analysis.WithCache(openCache(c, cfg)))
	defer svc.Close()

	tracker := progress.NewTracker("Analyzing", len(files), isatty.IsTerminal(os.Stderr.Fd()))
	ctx := analyzer.WithTracker(context.Background(), tracker.Analyzer())
	result, err := svc.Analyze(ctx, files)

	var perrs *fileproc.ProcessingErrors
	switch {
	case errors.As(err, &perrs):
		tracker.FinishSuccess()
		reportSkipped(c, perrs)
	case err != nil:
		tracker.FinishError(err)
		return nil, fmt.Errorf("analysis failed: %w", err)
	default:
		tracker.FinishSuccess()
	}

	if getTrailingBool(c, "verbose") && result.CacheHits > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files served from cache\n", result.CacheHits, len(files))
	}
	return result, nil
}

func openCache(c *cli.Context, cfg *config.Config) *cache.Cache {
	enabled := cfg.Cache.Enabled && !getTrailingBool(c, "no-cache")
	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, enabled, cache.WithVersion(analysis.CacheVersion(cfg)))
	if err != nil {
		if getTrailingBool(c, "verbose") {
			color.Yellow("Cache disabled: %v", err)
		}
		return nil
	}
	return store
}

func reportSkipped(c *cli.Context, perrs *fileproc.ProcessingErrors) {
	if !getTrailingBool(c, "verbose") {
		color.Yellow("Skipped %d files (use --verbose for details)", len(perrs.Errors))
		return
	}
	color.Yellow("Skipped %d files:", len(perrs.Errors))
	for _, e := range perrs.Errors {
		fmt.Fprintf(os.Stderr, "  - %v\n", e)
	}
}

// withResult is the Action of every analysis command: it loads the
// config, runs the analysis and hands the result to render.
func withResult(prepare func(*cli.Context, *config.Config), render func(*cli.Context, *config.Config, *output.Formatter, *analysis.Result) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		if prepare != nil {
			prepare(c, cfg)
		}

		result, err := runAnalysis(c, cfg)
		if errors.Is(err, errNoFiles) {
			color.Yellow("No Python files found")
			return nil
		}
		if err != nil {
			return err
		}

		formatter, err := newFormatter(c, cfg)
		if err != nil {
			return err
		}
		defer formatter.Close()
		return render(c, cfg, formatter, result)
	}
}

// intFlag returns the flag's value when set and fallback otherwise.
func intFlag(c *cli.Context, name string, fallback int) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	return fallback
}

// stringFlag returns the flag's value when set and fallback otherwise.
func stringFlag(c *cli.Context, name, fallback string) string {
	if c.IsSet(name) {
		return c.String(name)
	}
	return fallback
}
