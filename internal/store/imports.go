package store

import (
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// fixed-width so lexical order matches time order
const startedLayout = "2006-01-02T15:04:05.000000000Z"

// Import describes one load run against the data directory.
type Import struct {
	BatchID   string
	StartedAt time.Time
	Files     int
	Reparsed  int
	CacheHits int
	Records   int
}

// RecordImport appends an import run to the history.
func (c *Cache) RecordImport(imp Import) error {
	_, err := sq.Insert("imports").
		Columns("batch_id", "started_at", "files", "reparsed", "cache_hits", "records").
		Values(imp.BatchID, imp.StartedAt.UTC().Format(startedLayout),
			imp.Files, imp.Reparsed, imp.CacheHits, imp.Records).
		RunWith(c.db).
		Exec()
	return err
}

// LastImport returns the most recent import run. ok is false when the
// history is empty.
func (c *Cache) LastImport() (imp Import, ok bool, err error) {
	var started string
	err = sq.Select("batch_id", "started_at", "files", "reparsed", "cache_hits", "records").
		From("imports").
		OrderBy("started_at DESC").
		Limit(1).
		RunWith(c.db).
		QueryRow().
		Scan(&imp.BatchID, &started, &imp.Files, &imp.Reparsed, &imp.CacheHits, &imp.Records)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, false, nil
	}
	if err != nil {
		return Import{}, false, err
	}
	imp.StartedAt, _ = time.Parse(startedLayout, started)
	return imp, true, nil
}
