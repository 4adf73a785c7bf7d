package marketdata

import (
	"strings"

	"github.com/comparia/comparia/internal/model"
)

// relaxationPriority scores a term's resistance to being dropped when a
// query must be broadened. Brand evidence identifies the item and goes
// last; loose keywords carry the least search identity and go first.
// This is a per-attempt score, separate from the ordering rank a term
// carries for query assembly.
func relaxationPriority(t model.Term) int {
	switch t.Kind {
	case model.KindBrand, model.KindModel:
		return 100
	case model.KindObjectType:
		return 90
	}
	if strings.Contains(t.Text, " ") {
		// Multi-word values are exact-phrase quoted, so they behave like
		// proper nouns regardless of kind.
		return 85
	}
	switch t.Kind {
	case model.KindMaterial, model.KindGemstone:
		return 70
	case model.KindPeriod:
		return 60
	default:
		return 40
	}
}

// dropLowestPriority removes the weakest term from the set. Ties drop
// the latest-extracted term, keeping the earlier, stronger anchors.
func dropLowestPriority(terms []model.Term) []model.Term {
	if len(terms) <= 1 {
		return terms
	}

	drop := 0
	for i := 1; i < len(terms); i++ {
		pi, pd := relaxationPriority(terms[i]), relaxationPriority(terms[drop])
		if pi < pd || (pi == pd && terms[i].Ord > terms[drop].Ord) {
			drop = i
		}
	}

	out := make([]model.Term, 0, len(terms)-1)
	out = append(out, terms[:drop]...)
	out = append(out, terms[drop+1:]...)
	return out
}

// quotedQuery assembles the lookup string for a term set, exact-phrase
// quoting multi-word values.
func quotedQuery(terms []model.Term) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if strings.Contains(t.Text, " ") {
			parts = append(parts, `"`+t.Text+`"`)
		} else {
			parts = append(parts, t.Text)
		}
	}
	return strings.Join(parts, " ")
}

// plainQuery assembles the emergency lookup string: every term, no
// quoting, so loose matching can recover hits strict phrasing buried.
func plainQuery(terms []model.Term) string {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}
