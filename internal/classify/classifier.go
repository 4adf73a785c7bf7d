package classify

import (
	"strings"

	"github.com/comparia/comparia/internal/model"
)

// Classifier turns raw item attributes into typed candidate terms using
// the curated domain registry. Classification is purely lexical and never
// fails: an item no rule recognizes degrades to the generic strategy.
type Classifier struct {
	registry *Registry
}

// NewClassifier creates a classifier over the built-in registry
func NewClassifier() *Classifier {
	return &Classifier{registry: NewRegistry()}
}

// NewClassifierWithRegistry creates a classifier over a caller-supplied
// registry, typically one with a vocabulary overlay applied.
func NewClassifierWithRegistry(r *Registry) *Classifier {
	return &Classifier{registry: r}
}

// Classification holds the typed terms extracted from one item
type Classification struct {
	Domain string       // "" when no curated domain matched
	Terms  []model.Term // candidate terms in extraction order
}

// Classify detects the item's domain and runs its ordered attribute
// extractors: brand, material, gemstone/denomination, country, year.
// Each extractor contributes at most one term.
func (c *Classifier) Classify(item model.ItemAttributes) Classification {
	lower := strings.ToLower(classifiableText(item))

	var terms []model.Term
	add := func(text string, kind model.TermKind) {
		t := model.NewTerm(text, kind, model.SourceSystem)
		t.Ord = len(terms)
		terms = append(terms, t)
	}

	domain := c.registry.Detect(lower)

	objectType := normalizeToken(strings.ToLower(item.ObjectType))
	if objectType == "" && domain != nil {
		objectType = firstMatch(lower, domain.Keywords)
	}
	if objectType != "" {
		add(objectType, model.KindObjectType)
	}

	if domain == nil {
		// Generic: offer the leading title words as selectable keywords.
		count := 0
		for _, w := range strings.Fields(strings.ToLower(item.Title)) {
			w = normalizeToken(w)
			if len([]rune(w)) < 3 || w == objectType {
				continue
			}
			add(w, model.KindKeyword)
			if count++; count == 3 {
				break
			}
		}
		return Classification{Terms: terms}
	}

	if m := firstMatch(lower, domain.Brands); m != "" {
		add(m, model.KindBrand)
	}
	if m := firstMatch(lower, domain.Materials); m != "" {
		add(m, model.KindMaterial)
	}
	if domain.StoneKind == model.KindDenomination {
		if m := firstTokenMatch(lower, domain.Stones); m != "" {
			add(m, domain.StoneKind)
		}
	} else if m := firstMatch(lower, domain.Stones); m != "" {
		add(m, domain.StoneKind)
	}
	if m := firstMatch(lower, domain.Countries); m != "" {
		add(m, model.KindCountry)
	}
	if tok := firstPeriodToken(lower); tok != "" {
		add(tok, model.KindPeriod)
	}

	return Classification{Domain: domain.Name, Terms: terms}
}

// classifiableText joins the fields classification runs over. The
// description may be an HTML fragment and is stripped first.
func classifiableText(item model.ItemAttributes) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{item.ObjectType, item.Title, StripHTML(item.Description)} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// firstMatch returns the first vocabulary entry contained in text, in
// vocabulary order. Compound words match: "guldring" carries "guld".
func firstMatch(text string, vocab []string) string {
	for _, v := range vocab {
		if strings.Contains(text, v) {
			return v
		}
	}
	return ""
}

// firstTokenMatch requires whole-token matches. Denominations need this:
// "öre" and "mark" are substrings of far too many Swedish words.
func firstTokenMatch(text string, vocab []string) string {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		tokens[normalizeToken(tok)] = struct{}{}
	}
	for _, v := range vocab {
		if _, ok := tokens[v]; ok {
			return v
		}
	}
	return ""
}
