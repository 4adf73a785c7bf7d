package marketdata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/comparia/comparia/internal/model"
)

func TestRelaxationPriority(t *testing.T) {
	cases := []struct {
		text string
		kind model.TermKind
		want int
	}{
		{"omega", model.KindBrand, 100},
		{"seamaster", model.KindModel, 100},
		{"georg jensen", model.KindBrand, 100},
		{"armbandsur", model.KindObjectType, 90},
		{"sterling silver", model.KindMaterial, 85}, // quoted phrase outranks bare material
		{"stål", model.KindMaterial, 70},
		{"diamant", model.KindGemstone, 70},
		{"1970-tal", model.KindPeriod, 60},
		{"sverige", model.KindCountry, 40},
		{"öre", model.KindDenomination, 40},
		{"lot", model.KindKeyword, 40},
	}
	for _, tc := range cases {
		got := relaxationPriority(term(tc.text, tc.kind, 0))
		assert.Equal(t, tc.want, got, "priority of %s %q", tc.kind, tc.text)
	}
}

func TestQuotedQuery(t *testing.T) {
	q := quotedQuery([]model.Term{
		term("halsband", model.KindObjectType, 0),
		term("georg jensen", model.KindBrand, 1),
		term("925", model.KindMaterial, 2),
	})
	assert.Equal(t, `halsband "georg jensen" 925`, q)
}

func TestPlainQuery(t *testing.T) {
	q := plainQuery([]model.Term{
		term("halsband", model.KindObjectType, 0),
		term("georg jensen", model.KindBrand, 1),
	})
	assert.Equal(t, "halsband georg jensen", q)
}

func TestDropLowestPriority_KeepsSingleTerm(t *testing.T) {
	terms := []model.Term{term("mynt", model.KindObjectType, 0)}
	assert.Equal(t, terms, dropLowestPriority(terms))
}
