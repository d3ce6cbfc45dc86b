package pipeline

import (
	"strings"
	"testing"

	"github.com/theirongolddev/procdash/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		v, green, yellow float64
		want             model.Tier
	}{
		{1.0, 1.0, 0.95, model.TierOnTarget},
		{1.2, 1.0, 0.95, model.TierOnTarget},
		{0.95, 1.0, 0.95, model.TierNear},
		{0.97, 1.0, 0.95, model.TierNear},
		{0.9499, 1.0, 0.95, model.TierBelow},
		{0, 1.0, 0.95, model.TierBelow},
		// Inverted cutoffs are used as given.
		{0.92, 0.9, 0.95, model.TierOnTarget},
	}
	for _, tt := range tests {
		if got := Classify(tt.v, tt.green, tt.yellow); got != tt.want {
			t.Errorf("Classify(%v, %v, %v) = %s, want %s", tt.v, tt.green, tt.yellow, got, tt.want)
		}
	}
}

func TestClassifyUsesMatchingPair(t *testing.T) {
	th := model.Thresholds{RateGreen: 0.5, RateYellow: 0.4, OnTimeGreen: 0.99, OnTimeYellow: 0.98}

	if got := ClassifyRate(0.6, th); got != model.TierOnTarget {
		t.Errorf("ClassifyRate(0.6) = %s, want ON_TARGET", got)
	}
	if got := ClassifyOnTime(0.6, th); got != model.TierBelow {
		t.Errorf("ClassifyOnTime(0.6) = %s, want BELOW", got)
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		tier model.Tier
		want string
	}{
		{model.TierOnTarget, "Achievement 75.0% meets target"},
		{model.TierNear, "Achievement 75.0% is close to target"},
		{model.TierBelow, "Achievement 75.0% is below target"},
	}
	for _, tt := range tests {
		if got := Verdict("Achievement", 0.75, tt.tier); got != tt.want {
			t.Errorf("Verdict(%s) = %q, want %q", tt.tier, got, tt.want)
		}
	}
	if got := Verdict("On-time", 1, model.TierOnTarget); !strings.HasPrefix(got, "On-time 100.0%") {
		t.Errorf("Verdict = %q", got)
	}
}
