package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/theirongolddev/procdash/internal/cli"
	"github.com/theirongolddev/procdash/internal/pipeline"
	"github.com/theirongolddev/procdash/internal/store"

	"github.com/spf13/cobra"
)

var flagPrune bool

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Parse input files into the local cache and show the import history",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagPrune, "prune", false, "drop cached records of files that no longer exist")
	rootCmd.AddCommand(importCmd)
}

// pruneMissing forgets cached files that are gone from disk.
func pruneMissing(cache *store.Cache) (int, error) {
	tracked, err := cache.TrackedFiles()
	if err != nil {
		return 0, err
	}
	pruned := 0
	for path := range tracked {
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := cache.ForgetFile(path); err != nil {
			return pruned, fmt.Errorf("forgetting %s: %w", path, err)
		}
		slog.Debug("pruned cached file", "path", path)
		pruned++
	}
	return pruned, nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	files, err := pipeline.Discover(resolveDataDir(cfg), flagFiles)
	if err != nil {
		return err
	}

	cache, err := store.Open(pipeline.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	prev, hadPrev, err := cache.LastImport()
	if err != nil {
		return err
	}

	pruned := 0
	if flagPrune {
		if pruned, err = pruneMissing(cache); err != nil {
			return err
		}
	}

	cr, err := pipeline.LoadWithCache(cmd.Context(), files, cache, nil)
	if err != nil {
		return err
	}
	total, err := cache.RecordCount()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("IMPORT"))
	fmt.Println()
	fmt.Println(cli.RenderKV("Batch", cr.BatchID))
	fmt.Println(cli.RenderKV("Files", fmt.Sprintf("%d (%d cached, %d reparsed, %d failed)",
		cr.TotalFiles, cr.CacheHits, cr.Reparsed, cr.FileErrors)))
	fmt.Println(cli.RenderKV("Records", cli.FormatNumber(int64(len(cr.Records)))))
	fmt.Println(cli.RenderKV("Cached rows", cli.FormatNumber(int64(total))))
	if flagPrune {
		fmt.Println(cli.RenderKV("Pruned files", cli.FormatNumber(int64(pruned))))
	}
	if hadPrev {
		fmt.Println(cli.RenderKV("Previous import", prev.StartedAt.Local().Format(time.DateTime)))
	}
	for _, e := range cr.Errors {
		fmt.Printf("  ! %v\n", e)
	}
	fmt.Println()
	return nil
}
