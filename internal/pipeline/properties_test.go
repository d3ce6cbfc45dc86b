package pipeline

import (
	"math"
	"math/rand"
	"testing"

	"github.com/theirongolddev/procdash/internal/model"

	"github.com/smartystreets/goconvey/convey"
)

func randomRecords(rng *rand.Rand, n int) []model.Record {
	buyers := []string{"A", "B", "C", "D|W1"}
	cats := []string{"CPU", "GPU", "RAM", "SSD"}
	weeks := []string{"W1", "W2", "W3"}
	recs := make([]model.Record, n)
	for i := range recs {
		recs[i] = model.Record{
			Buyer:    buyers[rng.Intn(len(buyers))],
			Category: cats[rng.Intn(len(cats))],
			Week:     weeks[rng.Intn(len(weeks))],
			Amount:   math.Round(rng.Float64()*100000) / 100,
			Target:   float64(rng.Intn(3)) * 500,
			Margin:   rng.Float64(),
			OnTime:   rng.Intn(2) == 0,
		}
	}
	return recs
}

func eachCollection(fn func(recs []model.Record)) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		fn(randomRecords(rng, rng.Intn(40)))
	}
}

func TestProperties(t *testing.T) {
	th := model.DefaultThresholds()

	convey.Convey("Given random record collections", t, func() {
		convey.Convey("When total target is zero the achievement rate is zero", func() {
			eachCollection(func(recs []model.Record) {
				zeroed := make([]model.Record, len(recs))
				for i, r := range recs {
					r.Target = 0
					zeroed[i] = r
				}
				convey.So(ComputeKPIs(zeroed, th).AchievementRate, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("Cross tab totals agree", func() {
			eachCollection(func(recs []model.Record) {
				ct := CrossTabulate(recs)
				colSum, rowSum := 0.0, 0.0
				for _, c := range ct.ColKeys {
					colSum += ct.ColumnTotals[c]
				}
				for _, b := range ct.RowKeys {
					rowSum += ct.Rows[b].Total
				}
				convey.So(ct.GrandTotal, convey.ShouldAlmostEqual, colSum, 1e-6)
				convey.So(ct.GrandTotal, convey.ShouldAlmostEqual, rowSum, 1e-6)
				convey.So(ct.GrandTotal, convey.ShouldAlmostEqual, ComputeKPIs(recs, th).TotalAmount, 1e-6)
			})
		})

		convey.Convey("Filtering is idempotent", func() {
			eachCollection(func(recs []model.Record) {
				sel := model.Selector{Buyer: "B", Week: "W2"}
				once := ApplyFilter(recs, sel)
				convey.So(ApplyFilter(once, sel), convey.ShouldResemble, once)
			})
		})

		convey.Convey("Report top-N is clamped", func() {
			eachCollection(func(recs []model.Record) {
				for _, n := range []int{0, -5, 1000} {
					rep := BuildReport(recs, th, nil, n)
					convey.So(rep.TopN, convey.ShouldBeBetweenOrEqual, MinTopN, MaxTopN)
					convey.So(len(rep.TopItems), convey.ShouldBeLessThanOrEqualTo, rep.TopN)
					convey.So(len(rep.DelayedItems), convey.ShouldBeLessThanOrEqualTo, rep.TopN)
				}
			})
		})
	})

	convey.Convey("Given fixed cutoffs", t, func() {
		convey.Convey("Classification is monotonic in the value", func() {
			rank := map[model.Tier]int{model.TierBelow: 0, model.TierNear: 1, model.TierOnTarget: 2}
			prev := rank[Classify(0, 1, 0.95)]
			for v := 0.0; v <= 1.5; v += 0.005 {
				cur := rank[Classify(v, 1, 0.95)]
				convey.So(cur, convey.ShouldBeGreaterThanOrEqualTo, prev)
				prev = cur
			}
		})
	})

	convey.Convey("Given a plan ledger", t, func() {
		scope := model.Scope{Buyer: "A|B", Week: "W1"}
		l := NewLedger(nil)

		convey.Convey("Get then Set then Get round-trips", func() {
			rows := l.Get(scope)
			rows = append(rows, model.PlanRow{Category: "CPU", Target: 10, Actual: 8})
			l = l.Set(scope, rows)
			convey.So(l.Get(scope), convey.ShouldResemble, rows)
			convey.So(l.Has(model.Scope{Buyer: "A", Week: "B|W1"}), convey.ShouldBeFalse)
		})
	})
}

func TestScenarios(t *testing.T) {
	th := model.DefaultThresholds()

	convey.Convey("Given two records for buyer A", t, func() {
		recs := []model.Record{
			{Buyer: "A", Category: "CPU", Amount: 100, Target: 100, Margin: 0.2, OnTime: true},
			{Buyer: "A", Category: "GPU", Amount: 50, Target: 100, Margin: 0.1, OnTime: false},
		}
		k := ComputeKPIs(recs, th)

		convey.Convey("Then the KPIs match the worked example", func() {
			convey.So(k.TotalAmount, convey.ShouldEqual, 150)
			convey.So(k.AchievementRate, convey.ShouldEqual, 0.75)
			convey.So(ClassifyRate(k.AchievementRate, th), convey.ShouldEqual, model.TierBelow)
			convey.So(k.OnTimeRate, convey.ShouldEqual, 0.5)
			convey.So(ClassifyOnTime(k.OnTimeRate, th), convey.ShouldEqual, model.TierBelow)
			convey.So(k.AverageMargin, convey.ShouldAlmostEqual, 0.15, 1e-12)
		})
	})

	convey.Convey("Given an empty record collection", t, func() {
		var recs []model.Record

		convey.Convey("Then every KPI is zero", func() {
			k := ComputeKPIs(recs, th)
			convey.So(k, convey.ShouldResemble, model.KPIs{})
		})

		convey.Convey("Then the cross tab is empty", func() {
			ct := CrossTabulate(recs)
			convey.So(ct.RowKeys, convey.ShouldBeEmpty)
			convey.So(ct.ColKeys, convey.ShouldBeEmpty)
			convey.So(ct.GrandTotal, convey.ShouldEqual, 0)
		})

		convey.Convey("Then the report lists are empty", func() {
			rep := BuildReport(recs, th, nil, 5)
			convey.So(rep.TopItems, convey.ShouldBeEmpty)
			convey.So(rep.DelayedItems, convey.ShouldBeEmpty)
			convey.So(rep.CategoryContribution, convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given two records with the same amount", t, func() {
		recs := []model.Record{
			{Item: "first", Amount: 10},
			{Item: "bigger", Amount: 50},
			{Item: "second", Amount: 10},
		}

		convey.Convey("Then TopItems keeps their input order", func() {
			top := TopItems(recs, 3)
			convey.So(top[1].Item, convey.ShouldEqual, "first")
			convey.So(top[2].Item, convey.ShouldEqual, "second")
		})
	})
}
