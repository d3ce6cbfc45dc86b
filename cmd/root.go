// Package cmd implements the procdash CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/config"
	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/pipeline"
	"github.com/theirongolddev/procdash/internal/source"
	"github.com/theirongolddev/procdash/internal/store"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagFiles   []string
	flagBuyer   string
	flagWeek    string
	flagTop     int
	flagNoCache bool
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "procdash",
	Short: "Procurement weekly reporting dashboard",
	Long:  "Summarize procurement records by buyer and week: KPIs, breakdowns, pivots, plans and exports.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		setupLogging()
		cli.ConfigureColor(false)
	},
	RunE:          runSummary,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Directory scanned for input files (default from config, then ./data)")
	rootCmd.PersistentFlags().StringArrayVarP(&flagFiles, "file", "f", nil, "Explicit input file (repeatable; overrides the directory scan)")
	rootCmd.PersistentFlags().StringVarP(&flagBuyer, "buyer", "b", model.AllBuyers, "Buyer filter")
	rootCmd.PersistentFlags().StringVarP(&flagWeek, "week", "w", "", "Week filter (default all weeks)")
	rootCmd.PersistentFlags().IntVarP(&flagTop, "top", "n", 0, "Items in top/delayed lists (default from config, clamped to 3-20)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reparse everything")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
}

func setupLogging() {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler).With("component", "procdash"))
}

// loadConfig returns the user's config, falling back to defaults when the
// file is unreadable. Out-of-order thresholds are used as-is.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("config unreadable, using defaults", "path", config.Path(), "err", err)
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		slog.Warn("thresholds are inconsistent; classification uses them unchanged", "err", err)
	}
	return cfg
}

func resolveDataDir(cfg config.Config) string {
	if flagDataDir != "" {
		return flagDataDir
	}
	return config.DataDir(cfg)
}

func currentSelector() model.Selector {
	return model.Selector{Buyer: flagBuyer, Week: flagWeek}
}

// topN honors an explicit --top, even 0, which the core clamps up.
func topN(cfg config.Config) int {
	if topNSet() {
		return pipeline.ClampTopN(flagTop)
	}
	return pipeline.ClampTopN(cfg.General.DefaultTopN)
}

func topNSet() bool {
	return rootCmd.PersistentFlags().Changed("top")
}

// loadData is the shared data loading path used by all commands.
// Uses SQLite cache when available for fast subsequent runs.
func loadData(ctx context.Context, cfg config.Config) (*pipeline.LoadResult, error) {
	dataDir := resolveDataDir(cfg)
	files, err := pipeline.Discover(dataDir, flagFiles)
	if err != nil {
		return nil, err
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Scanning %d files...\n", len(files))
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%10 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing %s", cli.RenderProgressBar(current, total, 20))
		}
	}

	var result *pipeline.LoadResult
	if !flagNoCache {
		cr, err := loadCached(ctx, files, progressFn)
		if err != nil {
			slog.Debug("cache-assisted load failed, doing full parse", "err", err)
		} else {
			if !flagQuiet && cr.TotalFiles > 0 {
				fmt.Fprintf(os.Stderr, "\r  %s records (%d cached, %d reparsed)    \n",
					cli.FormatNumber(int64(len(cr.Records))), cr.CacheHits, cr.Reparsed)
			}
			result = &cr.LoadResult
		}
	}

	if result == nil {
		result, err = pipeline.Load(ctx, files, progressFn)
		if err != nil {
			return nil, err
		}
		if !flagQuiet && result.TotalFiles > 0 {
			fmt.Fprintf(os.Stderr, "\r  Parsed %s records from %d files    \n",
				cli.FormatNumber(int64(len(result.Records))), result.ParsedFiles)
		}
	}

	for _, e := range result.Errors {
		slog.Warn("file skipped", "err", e)
	}
	if result.TotalFiles > 0 && result.ParsedFiles == 0 {
		return nil, errors.New("no input file could be parsed")
	}
	return result, nil
}

func loadCached(ctx context.Context, files []source.DiscoveredFile, progressFn pipeline.ProgressFunc) (*pipeline.CachedLoadResult, error) {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return nil, err
	}
	defer func() { _ = cache.Close() }()

	cr, err := pipeline.LoadWithCache(ctx, files, cache, progressFn)
	if err != nil {
		return nil, err
	}
	slog.Debug("import recorded", "batch", cr.BatchID, "hits", cr.CacheHits, "reparsed", cr.Reparsed)
	return cr, nil
}

// openLedger loads the saved plans. The returned cache must be closed by
// the caller.
func openLedger() (pipeline.Ledger, *store.Cache, error) {
	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return pipeline.Ledger{}, nil, fmt.Errorf("opening plan store: %w", err)
	}
	plans, err := cache.LoadLedger()
	if err != nil {
		_ = cache.Close()
		return pipeline.Ledger{}, nil, fmt.Errorf("loading plans: %w", err)
	}
	return pipeline.NewLedger(plans), cache, nil
}

// planRowsFor returns the saved plan for the current selector, or none when
// the plan store is unavailable.
func planRowsFor(sel model.Selector) []model.PlanRow {
	ledger, cache, err := openLedger()
	if err != nil {
		slog.Warn("plans unavailable", "err", err)
		return nil
	}
	defer func() { _ = cache.Close() }()
	return ledger.Get(model.ScopeFor(sel))
}

// dataset bundles what every reporting command needs.
type dataset struct {
	cfg      config.Config
	sel      model.Selector
	all      []model.Record
	filtered []model.Record
	result   *pipeline.LoadResult
}

func loadDataset(ctx context.Context) (*dataset, error) {
	cfg := loadConfig()
	result, err := loadData(ctx, cfg)
	if err != nil {
		return nil, err
	}
	sel := currentSelector()
	return &dataset{
		cfg:      cfg,
		sel:      sel,
		all:      result.Records,
		filtered: pipeline.ApplyFilter(result.Records, sel),
		result:   result,
	}, nil
}

func (d *dataset) scopeLabel() string {
	s := model.ScopeFor(d.sel)
	return fmt.Sprintf("%s  %s", s.Buyer, cli.FormatWeek(s.Week))
}

func printNoData(d *dataset) {
	if len(d.all) == 0 {
		fmt.Println("\n  No procurement records found.")
		fmt.Printf("  Put CSV/TSV/XLSX files in %s or pass --file.\n", resolveDataDir(d.cfg))
		return
	}
	fmt.Printf("\n  No records match buyer %q week %q.\n", d.sel.Buyer, cli.FormatWeek(d.sel.Week))
}
