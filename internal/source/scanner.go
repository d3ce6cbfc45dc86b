package source

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDir walks dir and discovers all supported input files, sorted by path.
// Hidden directories and files (leading ".") and spreadsheet lock files
// (leading "~$") are skipped. A missing directory yields no files.
func ScanDir(dir string) ([]DiscoveredFile, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, nil
	}

	var files []DiscoveredFile

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // intentionally skip unreadable entries
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
			return nil
		}

		format, ok := FormatOf(path)
		if !ok {
			return nil
		}
		files = append(files, DiscoveredFile{Path: path, Name: name, Format: format})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// FormatOf returns the input format implied by a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, true
	case ".tsv":
		return FormatTSV, true
	case ".xlsx":
		return FormatXLSX, true
	}
	return "", false
}

// Discover resolves explicit paths into DiscoveredFiles, in the order given.
// Paths with unsupported extensions are treated as comma-separated text.
func Discover(paths []string) []DiscoveredFile {
	files := make([]DiscoveredFile, 0, len(paths))
	for _, p := range paths {
		format, ok := FormatOf(p)
		if !ok {
			format = FormatCSV
		}
		files = append(files, DiscoveredFile{Path: p, Name: filepath.Base(p), Format: format})
	}
	return files
}
