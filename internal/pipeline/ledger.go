package pipeline

import (
	"sort"
	"strings"

	"github.com/theirongolddev/procdash/internal/model"
)

// Ledger maps plan scopes to their row sequences. A Ledger value is never
// modified after construction: Set returns a new Ledger, so readers holding
// the old value keep seeing a consistent state.
type Ledger struct {
	plans map[model.Scope][]model.PlanRow
}

// NewLedger builds a ledger from persisted plans. Rows are copied.
func NewLedger(plans map[model.Scope][]model.PlanRow) Ledger {
	l := Ledger{plans: make(map[model.Scope][]model.PlanRow, len(plans))}
	for s, rows := range plans {
		l.plans[s] = copyRows(rows)
	}
	return l
}

// Get returns a copy of the rows stored for scope, or an empty slice.
// A miss does not create an entry.
func (l Ledger) Get(scope model.Scope) []model.PlanRow {
	rows, ok := l.plans[scope]
	if !ok {
		return []model.PlanRow{}
	}
	return copyRows(rows)
}

// Has reports whether scope has a stored plan (possibly empty).
func (l Ledger) Has(scope model.Scope) bool {
	_, ok := l.plans[scope]
	return ok
}

// Set returns a ledger where scope's rows are fully replaced by rows.
func (l Ledger) Set(scope model.Scope, rows []model.PlanRow) Ledger {
	next := Ledger{plans: make(map[model.Scope][]model.PlanRow, len(l.plans)+1)}
	for s, r := range l.plans {
		next.plans[s] = r
	}
	next.plans[scope] = copyRows(rows)
	return next
}

// Delete returns a ledger without scope.
func (l Ledger) Delete(scope model.Scope) Ledger {
	next := Ledger{plans: make(map[model.Scope][]model.PlanRow, len(l.plans))}
	for s, r := range l.plans {
		if s != scope {
			next.plans[s] = r
		}
	}
	return next
}

// Scopes lists stored scopes ordered by buyer then week.
func (l Ledger) Scopes() []model.Scope {
	scopes := make([]model.Scope, 0, len(l.plans))
	for s := range l.plans {
		scopes = append(scopes, s)
	}
	sort.Slice(scopes, func(i, j int) bool {
		if scopes[i].Buyer != scopes[j].Buyer {
			return scopes[i].Buyer < scopes[j].Buyer
		}
		return scopes[i].Week < scopes[j].Week
	})
	return scopes
}

// Len returns the number of stored scopes.
func (l Ledger) Len() int {
	return len(l.plans)
}

// SeedRows returns one empty plan row per category, for first-time display
// of a scope that has no plan yet. Categories are trimmed the way
// ParsePlanRow trims them, and blank ones are skipped, so seeded rows
// survive a FormatPlanText/ParsePlanText round trip unchanged.
func SeedRows(categories []string) []model.PlanRow {
	rows := make([]model.PlanRow, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		rows = append(rows, model.PlanRow{Category: c})
	}
	return rows
}

// PlanTotals sums a plan-row sequence and computes the overall and per-row
// rates. Duplicate categories are kept as separate rows.
func PlanTotals(rows []model.PlanRow, t model.Thresholds) model.PlanSummary {
	summary := model.PlanSummary{Rows: make([]model.PlanRowStatus, 0, len(rows))}
	for _, r := range rows {
		summary.Target += r.Target
		summary.Actual += r.Actual

		rate := 0.0
		if r.Target > 0 {
			rate = r.Actual / r.Target
		}
		summary.Rows = append(summary.Rows, model.PlanRowStatus{
			PlanRow: r,
			Rate:    rate,
			Tier:    ClassifyRate(rate, t),
		})
	}
	if summary.Target > 0 {
		summary.Rate = summary.Actual / summary.Target
	}
	return summary
}

func copyRows(rows []model.PlanRow) []model.PlanRow {
	out := make([]model.PlanRow, len(rows))
	copy(out, rows)
	return out
}
