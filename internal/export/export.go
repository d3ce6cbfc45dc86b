// Package export writes filtered records and reports to spreadsheet, PDF and
// JSON files.
package export

import (
	"strings"

	"github.com/theirongolddev/procdash/internal/model"
)

// FilePrefix is the default base name for exported files.
const FilePrefix = "採購週報"

// FileName builds "<prefix>_<buyer>_<week or ALL>.<ext>" for a selector.
// Path separators in buyer or week are replaced so the result stays a
// single path element.
func FileName(prefix string, sel model.Selector, ext string) string {
	buyer := sel.Buyer
	if buyer == "" {
		buyer = model.AllBuyers
	}
	week := sel.Week
	if week == "" {
		week = "ALL"
	}
	name := prefix + "_" + sanitize(buyer) + "_" + sanitize(week)
	return name + "." + strings.TrimPrefix(ext, ".")
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}

// Meta describes what an export covers.
type Meta struct {
	Title    string
	Selector model.Selector
	// FontPath is a TrueType font with CJK coverage for PDF output. Without
	// one, text outside Latin-1 is replaced.
	FontPath string
}
