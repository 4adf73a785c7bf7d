package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comparia/comparia/internal/model"
)

func TestSummarizeHistorical_RangeAndMedian(t *testing.T) {
	out := &Outcome{
		Scope:    model.ScopeEnded,
		Listings: listings(5100, 3800, 4200),
		Query:    "armbandsur omega",
	}

	hist := SummarizeHistorical(out)
	require.NotNil(t, hist)

	assert.Equal(t, 3800, hist.PriceRange.Low)
	assert.Equal(t, 5100, hist.PriceRange.High)
	assert.Equal(t, 4200, hist.PriceRange.Median)
	assert.Equal(t, 3, hist.SampleSize)
	assert.Equal(t, "armbandsur omega", hist.Query)
}

func TestSummarizeHistorical_EvenSampleMedian(t *testing.T) {
	hist := SummarizeHistorical(&Outcome{Listings: listings(1000, 2000, 3000, 4000)})
	require.NotNil(t, hist)
	assert.Equal(t, 2500, hist.PriceRange.Median)
}

func TestSummarizeHistorical_ConfidenceTiers(t *testing.T) {
	cases := []struct {
		name   string
		prices []int
		want   float64
	}{
		{"two comparables", []int{100, 200}, histConfSparse},
		{"three comparables", []int{100, 200, 300}, histConfModerate},
		{"nine comparables", []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, histConfModerate},
		{"ten comparables", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, histConfStrong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hist := SummarizeHistorical(&Outcome{Listings: listings(tc.prices...)})
			require.NotNil(t, hist)
			assert.Equal(t, tc.want, hist.Confidence)
		})
	}
}

func TestSummarizeHistorical_IgnoresUnpricedListings(t *testing.T) {
	out := &Outcome{Listings: []model.Listing{
		{Price: 500},
		{Price: 0}, // withdrawn or unsold, no realized price
		{Price: 700},
	}}

	hist := SummarizeHistorical(out)
	require.NotNil(t, hist)
	assert.Equal(t, 2, hist.SampleSize)
	assert.Equal(t, 500, hist.PriceRange.Low)
	assert.Equal(t, 700, hist.PriceRange.High)
}

func TestSummarizeHistorical_NilOnEmpty(t *testing.T) {
	assert.Nil(t, SummarizeHistorical(nil))
	assert.Nil(t, SummarizeHistorical(&Outcome{NoData: true}))
	assert.Nil(t, SummarizeHistorical(&Outcome{Listings: []model.Listing{{Price: 0}}}))
}

func TestSummarizeLive_Aggregates(t *testing.T) {
	out := &Outcome{
		Scope: model.ScopeLive,
		Query: "armbandsur omega",
		Listings: []model.Listing{
			{Estimate: 4000, Bids: 5, ReserveMet: true},
			{Estimate: 6000, Bids: 0, ReserveMet: false},
			{Estimate: 5000, Bids: 3, ReserveMet: true},
			{Estimate: 0, Bids: 2, ReserveMet: true}, // no estimate published
		},
	}

	live := SummarizeLive(out)
	require.NotNil(t, live)

	assert.Equal(t, 5000, live.AvgEstimate)
	assert.Equal(t, 10, live.TotalBids)
	assert.Equal(t, 75.0, live.ReserveMetPct)
	assert.Equal(t, 4, live.SampleSize)
	assert.Equal(t, "armbandsur omega", live.Query)
}

func TestSummarizeLive_NilOnEmpty(t *testing.T) {
	assert.Nil(t, SummarizeLive(nil))
	assert.Nil(t, SummarizeLive(&Outcome{NoData: true}))
}
