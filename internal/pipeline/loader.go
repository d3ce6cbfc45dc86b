package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/source"

	"golang.org/x/sync/errgroup"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Records     []model.Record
	TotalFiles  int
	ParsedFiles int
	FileErrors  int
	Errors      []error // one per failed file, in file order
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Discover resolves the input set: the explicit paths when any are given,
// otherwise every supported file under dataDir.
func Discover(dataDir string, explicit []string) ([]source.DiscoveredFile, error) {
	if len(explicit) > 0 {
		return source.Discover(explicit), nil
	}
	files, err := source.ScanDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dataDir, err)
	}
	return files, nil
}

// Load parses every file on a bounded worker pool. Records are concatenated
// in file order, then row order, regardless of which worker finished first.
func Load(ctx context.Context, files []source.DiscoveredFile, progressFn ProgressFunc) (*LoadResult, error) {
	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	parsed, err := parseAll(ctx, files, 0, len(files), progressFn)
	if err != nil {
		return nil, err
	}

	for _, pr := range parsed {
		if pr.Err != nil {
			result.FileErrors++
			result.Errors = append(result.Errors, pr.Err)
			continue
		}
		result.ParsedFiles++
		result.Records = append(result.Records, pr.Records...)
	}
	return result, nil
}

// parseAll parses files in parallel, returning results indexed like files.
// Progress is reported as offset+done out of total.
func parseAll(ctx context.Context, files []source.DiscoveredFile, offset, total int, progressFn ProgressFunc) ([]source.ParseResult, error) {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}

	results := make([]source.ParseResult, len(files))
	var processed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	for i := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = source.ParseFile(files[i])
			n := processed.Add(1)
			if progressFn != nil {
				progressFn(offset+int(n), total)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}
	return results, nil
}
