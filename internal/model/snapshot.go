package model

import "time"

// InsightKind classifies a narrative insight
type InsightKind string

const (
	InsightComparables      InsightKind = "comparables"       // Historical sales summary
	InsightMarketStrength   InsightKind = "market_strength"   // Reserve-met ratio above threshold
	InsightMarketWeakness   InsightKind = "market_weakness"   // Reserve-met ratio below threshold
	InsightInsufficientData InsightKind = "insufficient_data" // Live sample too small to classify
	InsightPriceComparison  InsightKind = "price_comparison"  // Divergence between price signals
	InsightMarketActivity   InsightKind = "market_activity"   // Bidding volume observation
)

// Significance ranks how much weight a cataloger should give an insight
type Significance string

const (
	SignificanceLow    Significance = "low"
	SignificanceMedium Significance = "medium"
	SignificanceHigh   Significance = "high"
)

// Insight is a generated, significance-ranked narrative observation.
// Insights are immutable once generated and consumed once by the caller.
type Insight struct {
	Kind         InsightKind  `json:"kind"`
	Message      string       `json:"message"`
	Significance Significance `json:"significance"`
}

// MarketSnapshot is the fused view of historical and live market data for
// one canonical query. Either market section may be nil when the backoff
// ladder exhausted without comparable data; that is a valid terminal
// outcome, not an error.
type MarketSnapshot struct {
	Historical         *HistoricalMarket `json:"historical,omitempty"`
	Live               *LiveMarket       `json:"live,omitempty"`
	CombinedConfidence float64           `json:"combined_confidence"`
	PriceRange         *PriceRange       `json:"price_range,omitempty"`
	Insights           []Insight         `json:"insights"`
	Query              string            `json:"query"`
	StrategyTag        string            `json:"strategy_tag,omitempty"`

	// Token is the monotonic request token of the analysis that produced
	// this snapshot. Callers compare it against the session's latest token
	// to discard results superseded by a newer request.
	Token       uint64    `json:"token"`
	GeneratedAt time.Time `json:"generated_at"`
}

// HasMarketData reports whether either market section carries comparables
func (s *MarketSnapshot) HasMarketData() bool {
	return s.Historical != nil || s.Live != nil
}

// ItemAttributes is the raw cataloging input for one analysis
type ItemAttributes struct {
	ObjectType  string `json:"object_type" yaml:"object_type"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// CatalogerValuation is the cataloger's own estimate in whole currency
	// units; 0 means not provided.
	CatalogerValuation int `json:"cataloger_valuation,omitempty" yaml:"cataloger_valuation,omitempty"`
}
