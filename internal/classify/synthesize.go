package classify

import (
	"strings"

	"github.com/comparia/comparia/internal/model"
)

// Synthesis is the initial query proposal for an item: the search phrase,
// a confidence estimate, a deterministic strategy tag for reproducible
// debugging, and the full candidate palette for query-state seeding.
type Synthesis struct {
	SearchTerms string       `json:"search_terms"`
	Confidence  float64      `json:"confidence"`
	StrategyTag string       `json:"strategy_tag"`
	TermCount   int          `json:"term_count"`
	Domain      string       `json:"domain,omitempty"`
	Terms       []model.Term `json:"terms"`
}

// Synthesize classifies the item and builds its initial search phrase:
// the object type plus the first attribute an extractor found, with a
// per-tier confidence. Items outside every curated domain fall back to
// the object type or the leading title words at generic confidence.
func (c *Classifier) Synthesize(item model.ItemAttributes) Synthesis {
	cls := c.Classify(item)

	var objectType string
	var attrs []model.Term
	var keywords []string
	for _, t := range cls.Terms {
		switch t.Kind {
		case model.KindObjectType:
			objectType = t.Text
		case model.KindKeyword:
			keywords = append(keywords, t.Text)
		default:
			attrs = append(attrs, t)
		}
	}

	syn := Synthesis{Domain: cls.Domain, Terms: cls.Terms}

	if cls.Domain == "" {
		switch {
		case objectType != "":
			syn.SearchTerms = objectType
			syn.TermCount = 1
			syn.StrategyTag = "generic/object_type"
			syn.Confidence = confGeneric
		case len(keywords) > 0:
			syn.SearchTerms = strings.Join(keywords, " ")
			syn.TermCount = len(keywords)
			syn.StrategyTag = "generic/title"
			syn.Confidence = confGeneric
		default:
			syn.StrategyTag = "generic/empty"
			syn.Confidence = 0.3
		}
		return syn
	}

	if len(attrs) == 0 {
		syn.SearchTerms = objectType
		syn.TermCount = 1
		syn.StrategyTag = cls.Domain + "/object_type"
		syn.Confidence = capConfidence(confObjectOnly)
		return syn
	}

	// Extraction order is extractor precedence, so the first attribute is
	// the strongest available anchor.
	attr := attrs[0]
	syn.SearchTerms = strings.TrimSpace(objectType + " " + attr.Text)
	syn.TermCount = 2
	if objectType == "" {
		syn.TermCount = 1
	}
	syn.StrategyTag = cls.Domain + "/" + string(attr.Kind)
	syn.Confidence = capConfidence(c.tierConfidence(cls.Domain, attr.Kind))
	return syn
}

// tierConfidence resolves the confidence tier for an attribute kind
// within a domain.
func (c *Classifier) tierConfidence(domain string, kind model.TermKind) float64 {
	d := c.registry.Domain(domain)
	switch kind {
	case model.KindBrand:
		if d != nil {
			return d.BrandConfidence
		}
		return confBrandMaker
	case model.KindMaterial:
		if d != nil {
			return d.MaterialConfidence
		}
		return confMaterial
	case model.KindGemstone:
		return confGemstone
	case model.KindDenomination:
		return confDenomination
	case model.KindCountry:
		return confCountry
	case model.KindPeriod:
		return confPeriod
	default:
		return confGeneric
	}
}

func capConfidence(c float64) float64 {
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}
