package pipeline

import (
	"fmt"

	"github.com/theirongolddev/procdash/internal/model"
)

// Classify maps v to a tier: >= green is on target, >= yellow is near,
// anything else is below. Inputs are not clamped or validated.
func Classify(v, green, yellow float64) model.Tier {
	switch {
	case v >= green:
		return model.TierOnTarget
	case v >= yellow:
		return model.TierNear
	default:
		return model.TierBelow
	}
}

// ClassifyRate classifies an achievement rate with the rate cutoffs.
func ClassifyRate(v float64, t model.Thresholds) model.Tier {
	return Classify(v, t.RateGreen, t.RateYellow)
}

// ClassifyOnTime classifies an on-time rate with the on-time cutoffs.
func ClassifyOnTime(v float64, t model.Thresholds) model.Tier {
	return Classify(v, t.OnTimeGreen, t.OnTimeYellow)
}

// Verdict renders a one-line judgement of a classified metric.
func Verdict(metric string, v float64, tier model.Tier) string {
	pct := fmt.Sprintf("%.1f%%", v*100)
	switch tier {
	case model.TierOnTarget:
		return fmt.Sprintf("%s %s meets target", metric, pct)
	case model.TierNear:
		return fmt.Sprintf("%s %s is close to target", metric, pct)
	default:
		return fmt.Sprintf("%s %s is below target", metric, pct)
	}
}
