package model

import "regexp"

// TermKind categorizes a search term by the item attribute it captures
type TermKind string

const (
	KindBrand        TermKind = "brand"        // Maker or artist name ("omega", "georg jensen")
	KindMaterial     TermKind = "material"     // Metal or body material ("stål", "silver")
	KindGemstone     TermKind = "gemstone"     // Set stones ("diamant", "safir")
	KindObjectType   TermKind = "object_type"  // Primary object noun ("armbandsur", "mynt")
	KindPeriod       TermKind = "period"       // Year or decade ("1970", "1970-tal")
	KindCountry      TermKind = "country"      // Country of origin ("sverige")
	KindDenomination TermKind = "denomination" // Coin denomination ("riksdaler")
	KindModel        TermKind = "model"        // Product model ("seamaster")
	KindKeyword      TermKind = "keyword"      // Untyped free-text token
)

// Provenance records which actor produced a term or drove a query mutation
type Provenance string

const (
	SourceSystem Provenance = "system" // Rule-based classification
	SourceUser   Provenance = "user"   // Manual selection edit
	SourceOracle Provenance = "oracle" // External classification oracle
)

// Term is one typed, prioritized search term owned by a query state.
// PriorityScore is the canonical-query ordering rank (ascending sorts
// earlier); it is assigned from the kind at creation and is distinct
// from the relaxation priorities the resolver computes per attempt.
type Term struct {
	Text          string     `json:"text"`
	Kind          TermKind   `json:"kind"`
	PriorityScore int        `json:"priority_score"`
	IsCore        bool       `json:"is_core"`
	IsSelected    bool       `json:"is_selected"`
	Provenance    Provenance `json:"provenance"`

	// Ord is the extraction order, used as the final ordering tie-break.
	Ord int `json:"-"`
}

// NewTerm creates a term with the ordering rank implied by its kind
func NewTerm(text string, kind TermKind, prov Provenance) Term {
	return Term{
		Text:          text,
		Kind:          kind,
		PriorityScore: kind.OrderRank(),
		Provenance:    prov,
	}
}

// OrderRank returns the canonical-query ordering rank for the kind.
// Lower ranks appear earlier in the assembled query.
func (k TermKind) OrderRank() int {
	switch k {
	case KindObjectType:
		return 10
	case KindBrand:
		return 20
	case KindModel:
		return 30
	case KindMaterial:
		return 40
	case KindGemstone:
		return 50
	case KindDenomination:
		return 55
	case KindPeriod:
		return 60
	case KindCountry:
		return 70
	default:
		return 80
	}
}

// yearPattern matches a 4-digit year anywhere in a term ("1970", "1970-tal")
var yearPattern = regexp.MustCompile(`(1[0-9]{3}|20[0-9]{2})`)

// YearIn returns the first 4-digit year embedded in s, or "" if none
func YearIn(s string) string {
	return yearPattern.FindString(s)
}
