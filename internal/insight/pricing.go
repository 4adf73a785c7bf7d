package insight

import (
	"fmt"
	"math"
	"strings"

	"github.com/comparia/comparia/internal/model"
)

// regime is the sample-gated live market classification
type regime int

const (
	regimeNone   regime = iota // no live data
	regimeThin                 // live sample below the gate
	regimeNormal
	regimeStrong
	regimeWeak
)

func classifyRegime(live *model.LiveMarket) regime {
	switch {
	case live == nil:
		return regimeNone
	case live.SampleSize < minLiveSample:
		return regimeThin
	case live.ReserveMetPct > strongReservePct:
		return regimeStrong
	case live.ReserveMetPct < weakReservePct:
		return regimeWeak
	default:
		return regimeNormal
	}
}

// comparison identifies which pair of price signals diverged
type comparison int

const (
	cmpLiveVsHist comparison = iota
	cmpValuationVsHist
	cmpValuationVsLive
)

type delta struct {
	cmp comparison
	pct float64 // signed percent relative to the base signal
}

// Divergence magnitudes in percent at which the price insight is first
// emitted and then escalated.
const (
	divergenceNotable  = 15.0
	divergenceClear    = 30.0
	divergenceSevere   = 50.0
	divergenceMultiple = 100.0
)

// priceInsight compares the cataloger's valuation against the live and
// historical signals and emits at most one divergence message. Both a
// live estimate average and a valuation must exist; the dominant delta
// picks the message and its magnitude sets the significance.
func priceInsight(r regime, hist *model.HistoricalMarket, live *model.LiveMarket, valuation int) (model.Insight, bool) {
	if live == nil || live.AvgEstimate <= 0 || valuation <= 0 {
		return model.Insight{}, false
	}

	deltas := priceDeltas(hist, live, valuation)
	if len(deltas) == 0 {
		return model.Insight{}, false
	}
	dominant := deltas[0]
	for _, d := range deltas[1:] {
		if math.Abs(d.pct) > math.Abs(dominant.pct) {
			dominant = d
		}
	}

	magnitude := math.Abs(dominant.pct)
	if magnitude < divergenceNotable {
		return model.Insight{}, false
	}

	return model.Insight{
		Kind:         model.InsightPriceComparison,
		Message:      priceMessage(r, dominant),
		Significance: priceSignificance(magnitude),
	}, true
}

func priceDeltas(hist *model.HistoricalMarket, live *model.LiveMarket, valuation int) []delta {
	histMedian := 0
	if hist != nil {
		histMedian = hist.PriceRange.Median
	}
	liveAvg := live.AvgEstimate

	var out []delta
	if histMedian > 0 {
		out = append(out, delta{cmpLiveVsHist, pctDelta(liveAvg, histMedian)})
		out = append(out, delta{cmpValuationVsHist, pctDelta(valuation, histMedian)})
	}
	out = append(out, delta{cmpValuationVsLive, pctDelta(valuation, liveAvg)})
	return out
}

func pctDelta(value, base int) float64 {
	return float64(value-base) * 100 / float64(base)
}

func priceSignificance(magnitude float64) model.Significance {
	switch {
	case magnitude >= divergenceSevere:
		return model.SignificanceHigh
	case magnitude >= divergenceClear:
		return model.SignificanceMedium
	default:
		return model.SignificanceLow
	}
}

// priceMessage selects the one message for a regime and dominant delta
func priceMessage(r regime, d delta) string {
	var base string
	switch d.cmp {
	case cmpLiveVsHist:
		base = "live estimates are " + deltaPhrase(d.pct) + " historical results"
	case cmpValuationVsHist:
		base = "valuation is " + deltaPhrase(d.pct) + " the historical sales median"
	default:
		base = "valuation is " + deltaPhrase(d.pct) + " the live estimate average"
	}

	switch r {
	case regimeWeak:
		return base + " in a weak market where bidding is thin"
	case regimeStrong:
		return base + " in a strong market with brisk bidding"
	default:
		return base
	}
}

// deltaPhrase renders a signed percent delta. Past double, a multiple
// reads better than a percentage.
func deltaPhrase(pct float64) string {
	switch {
	case pct >= divergenceMultiple:
		return fmt.Sprintf("%.1f times", pct/100+1)
	case pct > 0:
		return fmt.Sprintf("%.0f%% above", pct)
	default:
		return fmt.Sprintf("%.0f%% below", math.Abs(pct))
	}
}

// activityInsight reports bidding volume. It stays silent below the
// sample gate and when the price message already carries the same
// observation, checked by substring.
func activityInsight(r regime, live *model.LiveMarket, priceMsg string) (model.Insight, bool) {
	if r == regimeNone || r == regimeThin {
		return model.Insight{}, false
	}

	avgBids := float64(live.TotalBids) / float64(live.SampleSize)
	var phrase, msg string
	switch {
	case live.TotalBids == 0:
		phrase = "no bids yet"
		msg = fmt.Sprintf("no bids yet on %d live comparables", live.SampleSize)
	case avgBids >= 3:
		phrase = "brisk bidding"
		msg = fmt.Sprintf("brisk bidding across %d live comparables (%d bids)", live.SampleSize, live.TotalBids)
	case avgBids < 1:
		phrase = "bidding is thin"
		msg = fmt.Sprintf("bidding is thin across %d live comparables (%d bids)", live.SampleSize, live.TotalBids)
	default:
		phrase = "steady bidding"
		msg = fmt.Sprintf("steady bidding across %d live comparables (%d bids)", live.SampleSize, live.TotalBids)
	}

	if priceMsg != "" && strings.Contains(strings.ToLower(priceMsg), phrase) {
		return model.Insight{}, false
	}
	return model.Insight{
		Kind:         model.InsightMarketActivity,
		Message:      msg,
		Significance: model.SignificanceLow,
	}, true
}
