package model

import "fmt"

// Thresholds holds the green/yellow cutoffs used to classify ratio metrics.
type Thresholds struct {
	RateGreen    float64 `toml:"rate_green" json:"rateGreen"`
	RateYellow   float64 `toml:"rate_yellow" json:"rateYellow"`
	OnTimeGreen  float64 `toml:"ontime_green" json:"ontimeGreen"`
	OnTimeYellow float64 `toml:"ontime_yellow" json:"ontimeYellow"`
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		RateGreen:    1.0,
		RateYellow:   0.95,
		OnTimeGreen:  0.95,
		OnTimeYellow: 0.90,
	}
}

// Validate rejects negative cutoffs and yellow cutoffs above green ones.
// Classification itself does not depend on this; it is checked when a user
// commits new values.
func (t Thresholds) Validate() error {
	if t.RateGreen < 0 || t.RateYellow < 0 || t.OnTimeGreen < 0 || t.OnTimeYellow < 0 {
		return fmt.Errorf("thresholds must be non-negative")
	}
	if t.RateYellow > t.RateGreen {
		return fmt.Errorf("rate yellow (%.3f) is above rate green (%.3f)", t.RateYellow, t.RateGreen)
	}
	if t.OnTimeYellow > t.OnTimeGreen {
		return fmt.Errorf("on-time yellow (%.3f) is above on-time green (%.3f)", t.OnTimeYellow, t.OnTimeGreen)
	}
	return nil
}

// Tier is a three-level classification of a ratio against two cutoffs.
type Tier int

// Tiers, from best to worst.
const (
	TierOnTarget Tier = iota
	TierNear
	TierBelow
)

// String returns the tier's identifier.
func (t Tier) String() string {
	switch t {
	case TierOnTarget:
		return "ON_TARGET"
	case TierNear:
		return "NEAR"
	default:
		return "BELOW"
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// KPIs is the scalar summary of a record collection.
type KPIs struct {
	Records         int     `json:"records"`
	TotalAmount     float64 `json:"totalAmount"`
	TotalTarget     float64 `json:"totalTarget"`
	AchievementRate float64 `json:"achievementRate"`
	OnTimeRate      float64 `json:"onTimeRate"`
	AverageMargin   float64 `json:"averageMargin"`
}

// GroupTotal is one entry of a grouped breakdown.
type GroupTotal struct {
	Key         string  `json:"key"`
	TotalAmount float64 `json:"totalAmount"`
	Count       int     `json:"count"`
}

// CrossTabRow is one buyer's row in a cross-tab.
type CrossTabRow struct {
	Cells map[string]float64 `json:"cells"`
	Total float64            `json:"TOTAL"`
}

// CrossTab is amount aggregated by buyer (rows) and category (columns).
// RowKeys and ColKeys are sorted and drawn from the tabulated records only.
type CrossTab struct {
	RowKeys      []string               `json:"rowKeys"`
	ColKeys      []string               `json:"colKeys"`
	Rows         map[string]CrossTabRow `json:"rows"`
	ColumnTotals map[string]float64     `json:"columnTotals"`
	GrandTotal   float64                `json:"grandTotal"`
}

// CategoryShare is one row of a category contribution table.
type CategoryShare struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Share    float64 `json:"share"`
}

// Highlight is a classified ratio with a one-line verdict.
type Highlight struct {
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Tier    Tier    `json:"tier"`
	Verdict string  `json:"verdict"`
}

// PlanRowStatus is a plan row with its own achievement rate and tier.
type PlanRowStatus struct {
	PlanRow
	Rate float64 `json:"rate"`
	Tier Tier    `json:"tier"`
}

// PlanSummary totals a plan-row sequence.
type PlanSummary struct {
	Target float64         `json:"target"`
	Actual float64         `json:"actual"`
	Rate   float64         `json:"rate"`
	Rows   []PlanRowStatus `json:"rows"`
}

// Report is the document payload consumed by exporters. It carries data only.
type Report struct {
	KPIs                 KPIs            `json:"kpis"`
	RateTier             Tier            `json:"rateTier"`
	OnTimeTier           Tier            `json:"onTimeTier"`
	Highlights           []Highlight     `json:"highlights"`
	TopN                 int             `json:"topN"`
	TopItems             []Record        `json:"topItems"`
	DelayedItems         []Record        `json:"delayedItems"`
	CategoryContribution []CategoryShare `json:"categoryContribution"`
	PlanSummary          PlanSummary     `json:"planSummary"`
}
