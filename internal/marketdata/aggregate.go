package marketdata

import (
	"sort"

	"github.com/comparia/comparia/internal/model"
)

// Historical confidence is driven by how many priced comparables back
// the range. Two sales is an anecdote; ten is a market.
const (
	histConfSparse   = 0.40 // fewer than 3 comparables
	histConfModerate = 0.60 // 3-9
	histConfStrong   = 0.75 // 10 or more
)

// SummarizeHistorical reduces an ended-scope outcome to a price range
// with a sample-backed confidence. Returns nil when the outcome has no
// priced listings to summarize.
func SummarizeHistorical(o *Outcome) *model.HistoricalMarket {
	if o == nil || len(o.Listings) == 0 {
		return nil
	}

	prices := make([]int, 0, len(o.Listings))
	for _, l := range o.Listings {
		if l.Price > 0 {
			prices = append(prices, l.Price)
		}
	}
	if len(prices) == 0 {
		return nil
	}
	sort.Ints(prices)

	n := len(prices)
	median := prices[n/2]
	if n%2 == 0 {
		median = (prices[n/2-1] + prices[n/2]) / 2
	}

	confidence := histConfSparse
	switch {
	case n >= 10:
		confidence = histConfStrong
	case n >= 3:
		confidence = histConfModerate
	}

	return &model.HistoricalMarket{
		PriceRange: model.PriceRange{Low: prices[0], High: prices[n-1], Median: median},
		Confidence: confidence,
		SampleSize: n,
		Query:      o.Query,
		Attempts:   o.Attempts,
	}
}

// SummarizeLive reduces a live-scope outcome to estimate, bid and
// reserve aggregates. Returns nil when the outcome has no listings.
func SummarizeLive(o *Outcome) *model.LiveMarket {
	if o == nil || len(o.Listings) == 0 {
		return nil
	}

	estimateSum, estimateCount, totalBids, reserveMet := 0, 0, 0, 0
	for _, l := range o.Listings {
		if l.Estimate > 0 {
			estimateSum += l.Estimate
			estimateCount++
		}
		totalBids += l.Bids
		if l.ReserveMet {
			reserveMet++
		}
	}

	avgEstimate := 0
	if estimateCount > 0 {
		avgEstimate = estimateSum / estimateCount
	}

	return &model.LiveMarket{
		AvgEstimate:   avgEstimate,
		TotalBids:     totalBids,
		ReserveMetPct: float64(reserveMet) * 100 / float64(len(o.Listings)),
		SampleSize:    len(o.Listings),
		Query:         o.Query,
		Attempts:      o.Attempts,
	}
}
