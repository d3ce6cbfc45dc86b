// Package store provides a SQLite-backed cache for parsed records, plan
// ledgers and import history.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/procdash/internal/model"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // register sqlite driver
)

// rows per multi-value INSERT; keeps bound parameters well under SQLite's limit
const insertChunk = 500

var recordColumns = []string{
	"date", "week", "buyer", "category", "item",
	"qty", "amount", "target", "margin", "ontime",
}

// Cache provides SQLite-backed record caching and plan persistence.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path and applies
// any pending migrations.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
	BatchID   string
}

// TrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) TrackedFiles() (map[string]FileInfo, error) {
	rows, err := sq.Select("file_path", "mtime_ns", "size_bytes", "batch_id").
		From("files").
		RunWith(c.db).
		Query()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes, &fi.BatchID); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// ReplaceFileRecords stores the normalized records of one file, replacing
// anything previously cached for that path, and updates its tracking info.
func (c *Cache) ReplaceFileRecords(path string, records []model.Record, fi FileInfo) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := sq.Delete("records").Where(sq.Eq{"file_path": path}).RunWith(tx).Exec(); err != nil {
		return err
	}

	for start := 0; start < len(records); start += insertChunk {
		end := min(start+insertChunk, len(records))
		ins := sq.Insert("records").Columns(append([]string{"file_path", "seq"}, recordColumns...)...)
		for i := start; i < end; i++ {
			r := records[i]
			ins = ins.Values(path, i,
				r.Date, r.Week, r.Buyer, r.Category, r.Item,
				r.Qty, r.Amount, r.Target, r.Margin, boolToInt(r.OnTime),
			)
		}
		if _, err := ins.RunWith(tx).Exec(); err != nil {
			return err
		}
	}

	_, err = sq.Insert("files").
		Options("OR REPLACE").
		Columns("file_path", "mtime_ns", "size_bytes", "batch_id", "parsed_at").
		Values(path, fi.MtimeNs, fi.SizeBytes, fi.BatchID, time.Now().UTC().Format(time.RFC3339)).
		RunWith(tx).
		Exec()
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadRecords reads cached records for the given files, grouped by path in
// the order the paths are given and in original row order within a file.
// A nil paths slice loads every cached file in path order.
func (c *Cache) LoadRecords(paths []string) (map[string][]model.Record, error) {
	q := sq.Select(append([]string{"file_path"}, recordColumns...)...).
		From("records").
		OrderBy("file_path", "seq")
	if paths != nil {
		q = q.Where(sq.Eq{"file_path": paths})
	}

	rows, err := q.RunWith(c.db).Query()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]model.Record)
	for rows.Next() {
		var (
			path   string
			r      model.Record
			onTime int
		)
		if err := rows.Scan(&path,
			&r.Date, &r.Week, &r.Buyer, &r.Category, &r.Item,
			&r.Qty, &r.Amount, &r.Target, &r.Margin, &onTime,
		); err != nil {
			return nil, err
		}
		r.OnTime = onTime != 0
		out[path] = append(out[path], r)
	}
	return out, rows.Err()
}

// ForgetFile removes a file's cached records and tracking entry.
func (c *Cache) ForgetFile(path string) error {
	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := sq.Delete("records").Where(sq.Eq{"file_path": path}).RunWith(tx).Exec(); err != nil {
		return err
	}
	if _, err := sq.Delete("files").Where(sq.Eq{"file_path": path}).RunWith(tx).Exec(); err != nil {
		return err
	}
	return tx.Commit()
}

// RecordCount returns the number of cached records.
func (c *Cache) RecordCount() (int, error) {
	var count int
	err := sq.Select("COUNT(*)").From("records").RunWith(c.db).QueryRow().Scan(&count)
	return count, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
