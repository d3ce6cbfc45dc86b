package pipeline

import (
	"sort"

	"github.com/theirongolddev/procdash/internal/model"
)

// Report list length bounds.
const (
	MinTopN = 3
	MaxTopN = 20
)

// ClampTopN forces n into [MinTopN, MaxTopN].
func ClampTopN(n int) int {
	if n < MinTopN {
		return MinTopN
	}
	if n > MaxTopN {
		return MaxTopN
	}
	return n
}

// TopItems returns the n largest records by amount. Equal amounts keep their
// input order.
func TopItems(records []model.Record, n int) []model.Record {
	sorted := make([]model.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount > sorted[j].Amount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// DelayedItems returns up to n records not delivered on time, in input order.
func DelayedItems(records []model.Record, n int) []model.Record {
	delayed := make([]model.Record, 0, n)
	for _, r := range records {
		if len(delayed) >= n {
			break
		}
		if !r.OnTime {
			delayed = append(delayed, r)
		}
	}
	return delayed
}

// CategoryContribution returns per-category amounts, largest first, with each
// category's share of totalAmount. A total below 1 is divided as 1 so an
// empty or zero-valued set yields zero shares.
func CategoryContribution(records []model.Record, totalAmount float64) []model.CategoryShare {
	denom := totalAmount
	if denom < 1 {
		denom = 1
	}

	totals := CategoryTotals(records)
	shares := make([]model.CategoryShare, 0, len(totals))
	for _, g := range totals {
		shares = append(shares, model.CategoryShare{
			Category: g.Key,
			Amount:   g.TotalAmount,
			Share:    g.TotalAmount / denom,
		})
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount > shares[j].Amount
	})
	return shares
}

// BuildReport assembles the report payload for an already-filtered record set.
func BuildReport(records []model.Record, t model.Thresholds, planRows []model.PlanRow, topN int) model.Report {
	n := ClampTopN(topN)
	kpis := ComputeKPIs(records, t)
	rateTier := ClassifyRate(kpis.AchievementRate, t)
	onTimeTier := ClassifyOnTime(kpis.OnTimeRate, t)

	return model.Report{
		KPIs:       kpis,
		RateTier:   rateTier,
		OnTimeTier: onTimeTier,
		Highlights: []model.Highlight{
			{
				Metric:  "Achievement",
				Value:   kpis.AchievementRate,
				Tier:    rateTier,
				Verdict: Verdict("Achievement", kpis.AchievementRate, rateTier),
			},
			{
				Metric:  "On-time",
				Value:   kpis.OnTimeRate,
				Tier:    onTimeTier,
				Verdict: Verdict("On-time", kpis.OnTimeRate, onTimeTier),
			},
		},
		TopN:                 n,
		TopItems:             TopItems(records, n),
		DelayedItems:         DelayedItems(records, n),
		CategoryContribution: CategoryContribution(records, kpis.TotalAmount),
		PlanSummary:          PlanTotals(planRows, t),
	}
}
