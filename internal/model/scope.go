package model

// AllBuyers is the buyer selector value meaning "no buyer restriction".
const AllBuyers = "ALL"

// Selector narrows a record collection by buyer and week.
// Buyer == AllBuyers (or "") and Week == "" mean no restriction.
type Selector struct {
	Buyer string `json:"buyer"`
	Week  string `json:"week,omitempty"`
}

// AnyBuyer reports whether the selector spans every buyer.
func (s Selector) AnyBuyer() bool {
	return s.Buyer == "" || s.Buyer == AllBuyers
}

// AnyWeek reports whether the selector spans every week.
func (s Selector) AnyWeek() bool {
	return s.Week == ""
}

// Matches reports whether r passes the selector.
func (s Selector) Matches(r Record) bool {
	if !s.AnyBuyer() && r.Buyer != s.Buyer {
		return false
	}
	if !s.AnyWeek() && r.Week != s.Week {
		return false
	}
	return true
}

// Scope identifies one plan-row sequence: a (buyer, week) pair.
// An empty Week means the plan applies to all weeks.
type Scope struct {
	Buyer string `json:"buyer"`
	Week  string `json:"week,omitempty"`
}

// ScopeFor returns the plan scope of a selector.
func ScopeFor(s Selector) Scope {
	buyer := s.Buyer
	if buyer == "" {
		buyer = AllBuyers
	}
	return Scope{Buyer: buyer, Week: s.Week}
}

// Key renders the scope as "<buyer>|<week or ALL>". It is meant for display
// and file names only; the ledger itself is keyed by the struct.
func (s Scope) Key() string {
	buyer := s.Buyer
	if buyer == "" {
		buyer = AllBuyers
	}
	week := s.Week
	if week == "" {
		week = "ALL"
	}
	return buyer + "|" + week
}

// PlanRow is one manual target/actual line in a personal plan.
type PlanRow struct {
	Category string  `json:"category"`
	Target   float64 `json:"target"`
	Actual   float64 `json:"actual"`
}
