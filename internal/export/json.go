package export

import (
	"encoding/json"
	"io"

	"github.com/theirongolddev/procdash/internal/model"
)

// Payload is the JSON document written by WriteJSON.
type Payload struct {
	Buyer  string       `json:"buyer"`
	Week   string       `json:"week"`
	Report model.Report `json:"report"`
}

// WriteJSON writes the report for sel as indented JSON.
func WriteJSON(w io.Writer, sel model.Selector, report model.Report) error {
	scope := model.ScopeFor(sel)
	week := scope.Week
	if week == "" {
		week = "ALL"
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(Payload{Buyer: scope.Buyer, Week: week, Report: report})
}
