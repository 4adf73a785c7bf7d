// Package insight fuses historical comparables and live market signals
// into one snapshot: a combined confidence, a price range, and a small
// set of significance-ranked narrative observations for the cataloger.
package insight

import (
	"fmt"
	"time"

	"github.com/comparia/comparia/internal/model"
)

// minLiveSample gates statistical claims about the live market. Below
// it, a strength or weakness classification would be reading tea
// leaves, so an insufficient-data note is emitted instead.
const minLiveSample = 4

// Reserve-met thresholds in percent for the market regime.
const (
	strongReservePct = 70.0
	weakReservePct   = 30.0
)

// Engine turns market summaries into fused snapshots. It is stateless
// and safe for concurrent use.
type Engine struct{}

// NewEngine creates an insight engine
func NewEngine() *Engine {
	return &Engine{}
}

// Fuse combines the optional market sections and the cataloger's own
// valuation (0 = not provided) into a snapshot. Either section may be
// nil; the result always carries a confidence and whatever insights the
// data supports, down to none at all.
func (e *Engine) Fuse(hist *model.HistoricalMarket, live *model.LiveMarket, valuation int) *model.MarketSnapshot {
	snap := &model.MarketSnapshot{
		Historical:         hist,
		Live:               live,
		CombinedConfidence: CombinedConfidence(hist, live),
		GeneratedAt:        time.Now().UTC(),
	}
	if hist != nil {
		pr := hist.PriceRange
		snap.PriceRange = &pr
	}

	if hist != nil {
		snap.Insights = append(snap.Insights, comparablesInsight(hist))
	}

	regime := classifyRegime(live)
	if ins, ok := regimeInsight(regime, live); ok {
		snap.Insights = append(snap.Insights, ins)
	}

	priceMsg := ""
	if ins, ok := priceInsight(regime, hist, live, valuation); ok {
		snap.Insights = append(snap.Insights, ins)
		priceMsg = ins.Message
	}

	if ins, ok := activityInsight(regime, live, priceMsg); ok {
		snap.Insights = append(snap.Insights, ins)
	}

	return snap
}

// CombinedConfidence fuses the two partial confidence signals. Live
// data corroborating historical data is worth a fixed bonus; live data
// alone earns confidence with sample size; no data at all still leaves
// a floor above zero, since "nothing comparable found" is itself
// information.
func CombinedConfidence(hist *model.HistoricalMarket, live *model.LiveMarket) float64 {
	switch {
	case hist != nil && live != nil:
		c := hist.Confidence + 0.2
		if c > 1.0 {
			c = 1.0
		}
		return c
	case hist != nil:
		return hist.Confidence
	case live != nil:
		bonus := float64(live.SampleSize) / 20
		if bonus > 0.3 {
			bonus = 0.3
		}
		return 0.5 + bonus
	default:
		return 0.3
	}
}

func comparablesInsight(hist *model.HistoricalMarket) model.Insight {
	sig := model.SignificanceMedium
	if hist.SampleSize < 3 {
		sig = model.SignificanceLow
	}
	return model.Insight{
		Kind: model.InsightComparables,
		Message: fmt.Sprintf("%d comparable sales for %q: %d-%d, median %d",
			hist.SampleSize, hist.Query, hist.PriceRange.Low, hist.PriceRange.High, hist.PriceRange.Median),
		Significance: sig,
	}
}

// regimeInsight emits the sample-gated strength or weakness claim, or
// the insufficient-data note when the live sample is too small to say
// anything.
func regimeInsight(r regime, live *model.LiveMarket) (model.Insight, bool) {
	switch r {
	case regimeThin:
		return model.Insight{
			Kind: model.InsightInsufficientData,
			Message: fmt.Sprintf("only %d live comparables; market strength unclear",
				live.SampleSize),
			Significance: model.SignificanceLow,
		}, true
	case regimeStrong:
		return model.Insight{
			Kind: model.InsightMarketStrength,
			Message: fmt.Sprintf("strong market: %.0f%% of %d live comparables have met reserve",
				live.ReserveMetPct, live.SampleSize),
			Significance: model.SignificanceMedium,
		}, true
	case regimeWeak:
		return model.Insight{
			Kind: model.InsightMarketWeakness,
			Message: fmt.Sprintf("weak market: only %.0f%% of %d live comparables have met reserve",
				live.ReserveMetPct, live.SampleSize),
			Significance: model.SignificanceMedium,
		}, true
	default:
		return model.Insight{}, false
	}
}
