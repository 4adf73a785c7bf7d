package model

// SearchScope selects which marketplace index a lookup runs against
type SearchScope string

const (
	ScopeEnded SearchScope = "ended" // Completed listings with realized prices
	ScopeLive  SearchScope = "live"  // Running listings with estimates and bids
)

// Listing is a single marketplace hit. Ended listings carry a realized
// Price; live listings carry an Estimate, bid count and reserve status.
type Listing struct {
	ID         string `json:"id,omitempty"`
	Title      string `json:"title,omitempty"`
	Price      int    `json:"price,omitempty"`
	Estimate   int    `json:"estimate,omitempty"`
	Bids       int    `json:"bids,omitempty"`
	ReserveMet bool   `json:"reserve_met,omitempty"`
}

// SearchAttempt records a single lookup within a backoff ladder.
// Attempts are ephemeral diagnostics and are never persisted.
type SearchAttempt struct {
	Query       string      `json:"query"`
	Scope       SearchScope `json:"scope"`
	ResultCount int         `json:"result_count"`
	Succeeded   bool        `json:"succeeded"`
	Emergency   bool        `json:"emergency,omitempty"` // Unquoted last-resort lookup
}

// PriceRange bounds the realized prices of comparable sales
type PriceRange struct {
	Low    int `json:"low"`
	High   int `json:"high"`
	Median int `json:"median"`
}

// HistoricalMarket summarizes the ended comparable listings found for a query
type HistoricalMarket struct {
	PriceRange PriceRange      `json:"price_range"`
	Confidence float64         `json:"confidence"`
	SampleSize int             `json:"sample_size"`
	Query      string          `json:"query"`              // Query that produced the comparables
	Attempts   []SearchAttempt `json:"attempts,omitempty"` // Ladder trail, most recent last
}

// LiveMarket summarizes the currently running comparable listings
type LiveMarket struct {
	AvgEstimate   int             `json:"avg_estimate"`
	TotalBids     int             `json:"total_bids"`
	ReserveMetPct float64         `json:"reserve_met_pct"`
	SampleSize    int             `json:"sample_size"`
	Query         string          `json:"query"`
	Attempts      []SearchAttempt `json:"attempts,omitempty"`
}
