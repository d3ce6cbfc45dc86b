// Package source discovers and parses procurement record files.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/procdash/internal/model"
)

// ParseResult holds the output of parsing a single input file.
type ParseResult struct {
	File    DiscoveredFile
	Records []model.Record
	Err     error
}

// ParseFile reads an input file and normalizes every data row.
// Row-level problems never fail the file; only unreadable files or files
// without a header row do.
func ParseFile(df DiscoveredFile) ParseResult {
	var (
		raw []model.RawRecord
		err error
	)
	switch df.Format {
	case FormatXLSX:
		raw, err = parseXLSX(df.Path)
	case FormatTSV:
		raw, err = parseDelimited(df.Path, '\t')
	default:
		raw, err = parseDelimited(df.Path, ',')
	}
	if err != nil {
		return ParseResult{File: df, Err: fmt.Errorf("parsing %s: %w", df.Name, err)}
	}

	records := make([]model.Record, len(raw))
	for i, r := range raw {
		records[i] = model.Normalize(r)
	}
	return ParseResult{File: df, Records: records}
}

func parseDelimited(path string, comma rune) ([]model.RawRecord, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from a directory scan or explicit flag
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ReadDelimited(f, comma)
}

// ReadDelimited parses delimited text with a header row into raw records.
func ReadDelimited(r io.Reader, comma rune) ([]model.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, err
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				// Keep going past a malformed line.
				continue
			}
			return nil, err
		}
		rows = append(rows, row)
	}

	return rowsToRaw(header, rows), nil
}
