package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/procdash/internal/model"
	"github.com/theirongolddev/procdash/internal/source"
	"github.com/theirongolddev/procdash/internal/store"

	"github.com/google/uuid"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	BatchID   string
	CacheHits int
	Reparsed  int
}

// LoadWithCache diffs files against the cache, parses only the changed ones,
// and returns the combined record set in file order. Each run is recorded in
// the import history under a fresh batch id.
func LoadWithCache(ctx context.Context, files []source.DiscoveredFile, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	started := time.Now()
	result := &CachedLoadResult{
		LoadResult: LoadResult{TotalFiles: len(files)},
		BatchID:    uuid.NewString(),
	}

	tracked, err := cache.TrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Diff: partition into changed and unchanged
	var toReparse []source.DiscoveredFile
	var reparseInfo []store.FileInfo
	var unchanged []string

	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			// Let the parser report the failure for this file.
			toReparse = append(toReparse, f)
			reparseInfo = append(reparseInfo, store.FileInfo{})
			continue
		}

		fi := store.FileInfo{MtimeNs: info.ModTime().UnixNano(), SizeBytes: info.Size(), BatchID: result.BatchID}
		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == fi.MtimeNs && cached.SizeBytes == fi.SizeBytes {
			unchanged = append(unchanged, f.Path)
		} else {
			toReparse = append(toReparse, f)
			reparseInfo = append(reparseInfo, fi)
		}
	}

	result.CacheHits = len(unchanged)
	result.Reparsed = len(toReparse)

	byPath := make(map[string][]model.Record, len(files))
	failed := make(map[string]error)

	if len(unchanged) > 0 {
		cached, err := cache.LoadRecords(unchanged)
		if err != nil {
			return nil, fmt.Errorf("loading cached records: %w", err)
		}
		for path, recs := range cached {
			byPath[path] = recs
		}
		if progressFn != nil {
			progressFn(len(unchanged), len(files))
		}
	}

	if len(toReparse) > 0 {
		parsed, err := parseAll(ctx, toReparse, len(unchanged), len(files), progressFn)
		if err != nil {
			return nil, err
		}
		for i, pr := range parsed {
			path := toReparse[i].Path
			if pr.Err != nil {
				failed[path] = pr.Err
				continue
			}
			byPath[path] = pr.Records
			if err := cache.ReplaceFileRecords(path, pr.Records, reparseInfo[i]); err != nil {
				return nil, fmt.Errorf("caching %s: %w", toReparse[i].Name, err)
			}
		}
	}

	// Reassemble in file order so cached and fresh loads agree.
	for _, f := range files {
		if err, ok := failed[f.Path]; ok {
			result.FileErrors++
			result.Errors = append(result.Errors, err)
			continue
		}
		result.ParsedFiles++
		result.Records = append(result.Records, byPath[f.Path]...)
	}

	err = cache.RecordImport(store.Import{
		BatchID:   result.BatchID,
		StartedAt: started,
		Files:     result.TotalFiles,
		Reparsed:  result.Reparsed,
		CacheHits: result.CacheHits,
		Records:   len(result.Records),
	})
	if err != nil {
		return nil, fmt.Errorf("recording import: %w", err)
	}

	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "procdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "procdash")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "procdash.db")
}
