package insight

import (
	"strings"
	"testing"

	"github.com/comparia/comparia/internal/model"
)

func histMarket(median, sample int, conf float64) *model.HistoricalMarket {
	return &model.HistoricalMarket{
		PriceRange: model.PriceRange{Low: median - 500, High: median + 500, Median: median},
		Confidence: conf,
		SampleSize: sample,
		Query:      "armbandsur omega",
	}
}

func liveMarket(avg, bids int, reservePct float64, sample int) *model.LiveMarket {
	return &model.LiveMarket{
		AvgEstimate:   avg,
		TotalBids:     bids,
		ReserveMetPct: reservePct,
		SampleSize:    sample,
		Query:         "armbandsur omega",
	}
}

func insightsOfKind(snap *model.MarketSnapshot, kind model.InsightKind) []model.Insight {
	var out []model.Insight
	for _, ins := range snap.Insights {
		if ins.Kind == kind {
			out = append(out, ins)
		}
	}
	return out
}

func TestCombinedConfidence_BothSignals(t *testing.T) {
	got := CombinedConfidence(histMarket(4000, 7, 0.6), liveMarket(4200, 12, 50, 8))
	if got != 0.8 {
		t.Errorf("Expected corroborated confidence 0.8, got %v", got)
	}
}

func TestCombinedConfidence_CappedAtOne(t *testing.T) {
	got := CombinedConfidence(histMarket(4000, 20, 0.95), liveMarket(4200, 12, 50, 8))
	if got != 1.0 {
		t.Errorf("Expected confidence capped at 1.0, got %v", got)
	}
}

func TestCombinedConfidence_HistoricalOnly(t *testing.T) {
	got := CombinedConfidence(histMarket(4000, 12, 0.75), nil)
	if got != 0.75 {
		t.Errorf("Expected historical confidence to pass through, got %v", got)
	}
}

func TestCombinedConfidence_LiveOnly(t *testing.T) {
	cases := []struct {
		sample int
		want   float64
	}{
		{2, 0.6},
		{10, 0.8},
		{20, 0.8},
	}
	for _, tc := range cases {
		got := CombinedConfidence(nil, liveMarket(4200, 12, 50, tc.sample))
		if got != tc.want {
			t.Errorf("Expected live-only confidence %v for sample %d, got %v", tc.want, tc.sample, got)
		}
	}
}

func TestCombinedConfidence_NoData(t *testing.T) {
	got := CombinedConfidence(nil, nil)
	if got != 0.3 {
		t.Errorf("Expected floor confidence 0.3 with no data, got %v", got)
	}
}

func TestEngine_FuseMirrorsHistoricalRange(t *testing.T) {
	e := NewEngine()
	hist := histMarket(4000, 7, 0.6)

	snap := e.Fuse(hist, nil, 0)

	if snap.PriceRange == nil {
		t.Fatal("Expected price range to be populated from historical data")
	}
	if *snap.PriceRange != hist.PriceRange {
		t.Errorf("Expected price range %+v, got %+v", hist.PriceRange, *snap.PriceRange)
	}
	if snap.GeneratedAt.IsZero() {
		t.Error("Expected generation timestamp to be set")
	}
	if !snap.HasMarketData() {
		t.Error("Expected snapshot to report market data")
	}
}

func TestEngine_FuseWithNoData(t *testing.T) {
	e := NewEngine()

	snap := e.Fuse(nil, nil, 0)

	if snap == nil {
		t.Fatal("Expected a snapshot even without market data")
	}
	if snap.HasMarketData() {
		t.Error("Expected no market data")
	}
	if snap.CombinedConfidence != 0.3 {
		t.Errorf("Expected floor confidence 0.3, got %v", snap.CombinedConfidence)
	}
	if len(snap.Insights) != 0 {
		t.Errorf("Expected no insights without data, got %+v", snap.Insights)
	}
	if snap.PriceRange != nil {
		t.Errorf("Expected nil price range, got %+v", snap.PriceRange)
	}
}

func TestEngine_ComparablesInsight(t *testing.T) {
	e := NewEngine()

	snap := e.Fuse(histMarket(4000, 7, 0.6), nil, 0)

	comps := insightsOfKind(snap, model.InsightComparables)
	if len(comps) != 1 {
		t.Fatalf("Expected one comparables insight, got %d", len(comps))
	}
	want := `7 comparable sales for "armbandsur omega": 3500-4500, median 4000`
	if comps[0].Message != want {
		t.Errorf("Expected message %q, got %q", want, comps[0].Message)
	}
	if comps[0].Significance != model.SignificanceMedium {
		t.Errorf("Expected medium significance, got %q", comps[0].Significance)
	}
}

func TestEngine_SparseComparablesAreLowSignificance(t *testing.T) {
	e := NewEngine()

	snap := e.Fuse(histMarket(4000, 2, 0.4), nil, 0)

	comps := insightsOfKind(snap, model.InsightComparables)
	if len(comps) != 1 || comps[0].Significance != model.SignificanceLow {
		t.Errorf("Expected one low-significance comparables insight, got %+v", comps)
	}
}

func TestEngine_SampleGateBlocksStrengthClaim(t *testing.T) {
	e := NewEngine()

	// All three listings met reserve, but three is below the gate.
	snap := e.Fuse(nil, liveMarket(4200, 9, 100, 3), 0)

	if got := insightsOfKind(snap, model.InsightMarketStrength); len(got) != 0 {
		t.Errorf("Expected no strength claim below the sample gate, got %+v", got)
	}
	thin := insightsOfKind(snap, model.InsightInsufficientData)
	if len(thin) != 1 {
		t.Fatalf("Expected an insufficient-data insight, got %+v", snap.Insights)
	}
	want := "only 3 live comparables; market strength unclear"
	if thin[0].Message != want {
		t.Errorf("Expected message %q, got %q", want, thin[0].Message)
	}
}

func TestEngine_StrongMarketInsight(t *testing.T) {
	e := NewEngine()

	snap := e.Fuse(nil, liveMarket(4200, 30, 75, 8), 0)

	strong := insightsOfKind(snap, model.InsightMarketStrength)
	if len(strong) != 1 {
		t.Fatalf("Expected one strength insight, got %+v", snap.Insights)
	}
	want := "strong market: 75% of 8 live comparables have met reserve"
	if strong[0].Message != want {
		t.Errorf("Expected message %q, got %q", want, strong[0].Message)
	}
	if strong[0].Significance != model.SignificanceMedium {
		t.Errorf("Expected medium significance, got %q", strong[0].Significance)
	}
}

func TestEngine_WeakMarketInsight(t *testing.T) {
	e := NewEngine()

	snap := e.Fuse(nil, liveMarket(4200, 5, 25, 8), 0)

	weak := insightsOfKind(snap, model.InsightMarketWeakness)
	if len(weak) != 1 {
		t.Fatalf("Expected one weakness insight, got %+v", snap.Insights)
	}
	want := "weak market: only 25% of 8 live comparables have met reserve"
	if weak[0].Message != want {
		t.Errorf("Expected message %q, got %q", want, weak[0].Message)
	}
}

func TestEngine_ThresholdBoundariesAreNormal(t *testing.T) {
	e := NewEngine()

	for _, pct := range []float64{70, 30} {
		snap := e.Fuse(nil, liveMarket(4200, 12, pct, 8), 0)
		if got := insightsOfKind(snap, model.InsightMarketStrength); len(got) != 0 {
			t.Errorf("Expected no strength claim at %.0f%%, got %+v", pct, got)
		}
		if got := insightsOfKind(snap, model.InsightMarketWeakness); len(got) != 0 {
			t.Errorf("Expected no weakness claim at %.0f%%, got %+v", pct, got)
		}
	}
}

func TestEngine_AtMostOnePriceInsight(t *testing.T) {
	e := NewEngine()

	// All three pairwise deltas clear the emission threshold; only the
	// dominant one may surface.
	snap := e.Fuse(histMarket(1000, 6, 0.6), liveMarket(2000, 12, 50, 8), 3000)

	prices := insightsOfKind(snap, model.InsightPriceComparison)
	if len(prices) != 1 {
		t.Fatalf("Expected exactly one price insight, got %d", len(prices))
	}
	want := "valuation is 3.0 times the historical sales median"
	if prices[0].Message != want {
		t.Errorf("Expected dominant-delta message %q, got %q", want, prices[0].Message)
	}
	if prices[0].Significance != model.SignificanceHigh {
		t.Errorf("Expected high significance, got %q", prices[0].Significance)
	}
}

func TestEngine_ActivityDeduplicatedAgainstPriceMessage(t *testing.T) {
	e := NewEngine()

	// Weak regime with half a bid per listing: the price message already
	// says bidding is thin, so the activity insight must stay silent.
	snap := e.Fuse(nil, liveMarket(2000, 4, 20, 8), 3000)

	prices := insightsOfKind(snap, model.InsightPriceComparison)
	if len(prices) != 1 {
		t.Fatalf("Expected one price insight, got %+v", snap.Insights)
	}
	if !strings.Contains(prices[0].Message, "bidding is thin") {
		t.Fatalf("Expected weak-market clause in price message, got %q", prices[0].Message)
	}
	if got := insightsOfKind(snap, model.InsightMarketActivity); len(got) != 0 {
		t.Errorf("Expected activity insight to be de-duplicated, got %+v", got)
	}
}

func TestEngine_ActivityEmittedWhenDistinct(t *testing.T) {
	e := NewEngine()

	// No valuation means no price insight, so the activity observation
	// has nothing to collide with.
	snap := e.Fuse(nil, liveMarket(4200, 24, 50, 8), 0)

	acts := insightsOfKind(snap, model.InsightMarketActivity)
	if len(acts) != 1 {
		t.Fatalf("Expected one activity insight, got %+v", snap.Insights)
	}
	want := "brisk bidding across 8 live comparables (24 bids)"
	if acts[0].Message != want {
		t.Errorf("Expected message %q, got %q", want, acts[0].Message)
	}
}
