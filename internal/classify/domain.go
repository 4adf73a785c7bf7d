package classify

import (
	"strings"

	"github.com/comparia/comparia/internal/model"
)

// Confidence tiers for synthesized queries. Brand evidence is worth the
// most; country and period matches are weak anchors. Values feed the
// synthesizer and are capped at maxConfidence there.
const (
	confBrandStrong    = 0.85 // Serial-produced brands (watches, audio)
	confBrandMaker     = 0.80 // Makers and artists (jewelry, instruments)
	confMaterialStrong = 0.75 // Material in a material-defined domain
	confMaterial       = 0.70
	confGemstone       = 0.70
	confDenomination   = 0.65
	confCountry        = 0.65
	confPeriod         = 0.60
	confObjectOnly     = 0.55 // Domain matched but no attribute found
	confGeneric        = 0.50
	maxConfidence      = 0.90
)

// Domain is one curated item category: its detection keywords, the
// vocabulary that disqualifies it, and the data its attribute extractors
// draw from. Domains are pure data so vocabulary and logic stay
// independently testable.
type Domain struct {
	Name     string
	Keywords []string

	// Excludes disqualifies the domain when any entry matches, regardless
	// of keyword hits.
	Excludes []string

	Brands          []string
	BrandConfidence float64

	Materials          []string
	MaterialConfidence float64

	// Stones holds gemstone or denomination vocabulary depending on the
	// domain; StoneKind tells the extractor which term kind to emit.
	Stones          []string
	StoneKind       model.TermKind
	StoneConfidence float64

	Countries []string
}

// Matches reports whether the domain claims the given lowercased text
func (d *Domain) Matches(text string) bool {
	for _, ex := range d.Excludes {
		if strings.Contains(text, ex) {
			return false
		}
	}
	for _, kw := range d.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Registry holds the built-in domains in detection precedence order
type Registry struct {
	domains []*Domain
}

// NewRegistry builds the curated registry. Order is the fixed detection
// precedence: jewelry, watch, audio, instrument, coin, stamp. Jewelry
// carries the movement and watch-noun exclusions so watches win ties.
func NewRegistry() *Registry {
	return &Registry{domains: []*Domain{
		{
			Name:               "jewelry",
			Keywords:           jewelryKeywords,
			Excludes:           jewelryExcludes,
			Brands:             jewelryMakers,
			BrandConfidence:    confBrandMaker,
			Materials:          sharedMaterials,
			MaterialConfidence: confMaterialStrong,
			Stones:             gemstones,
			StoneKind:          model.KindGemstone,
			StoneConfidence:    confGemstone,
			Countries:          countries,
		},
		{
			Name:               "watch",
			Keywords:           watchDetectVocab,
			Brands:             watchBrands,
			BrandConfidence:    confBrandStrong,
			Materials:          sharedMaterials,
			MaterialConfidence: confMaterial,
			Stones:             gemstones,
			StoneKind:          model.KindGemstone,
			StoneConfidence:    confGemstone,
			Countries:          countries,
		},
		{
			Name:               "audio",
			Keywords:           audioKeywords,
			Brands:             audioBrands,
			BrandConfidence:    confBrandStrong,
			Materials:          nil,
			MaterialConfidence: confMaterial,
			Countries:          countries,
		},
		{
			Name:               "instrument",
			Keywords:           instrumentKeywords,
			Brands:             instrumentBrands,
			BrandConfidence:    confBrandMaker,
			Materials:          nil,
			MaterialConfidence: confMaterial,
			Countries:          countries,
		},
		{
			Name:               "coin",
			Keywords:           coinKeywords,
			Materials:          sharedMaterials,
			MaterialConfidence: confMaterial,
			Stones:             denominations,
			StoneKind:          model.KindDenomination,
			StoneConfidence:    confDenomination,
			Countries:          countries,
		},
		{
			Name:      "stamp",
			Keywords:  stampKeywords,
			Countries: countries,
		},
	}}
}

// Detect returns the first domain claiming the text, or nil when no
// curated domain matches and the generic strategy applies.
func (r *Registry) Detect(text string) *Domain {
	lower := strings.ToLower(text)
	for _, d := range r.domains {
		if d.Matches(lower) {
			return d
		}
	}
	return nil
}

// Domain returns a registered domain by name, or nil
func (r *Registry) Domain(name string) *Domain {
	for _, d := range r.domains {
		if d.Name == name {
			return d
		}
	}
	return nil
}
