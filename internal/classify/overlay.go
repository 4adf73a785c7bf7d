package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comparia/comparia/internal/model"
)

// VocabularyOverlay supplements the curated vocabulary from a YAML file.
// House-specific brand lists grow faster than releases; an overlay lets
// catalogers extend detection without a rebuild. Entries are merged in
// after the curated lists, so built-in vocabulary keeps precedence.
//
//	keywords:
//	  audio: ["equalizer"]
//	brands:
//	  watch: ["universal genève"]
//	materials: ["palladium"]
//	gemstones: ["morganit"]
type VocabularyOverlay struct {
	Keywords  map[string][]string `yaml:"keywords"`
	Brands    map[string][]string `yaml:"brands"`
	Materials []string            `yaml:"materials"`
	Gemstones []string            `yaml:"gemstones"`
}

// LoadVocabularyOverlay reads and parses an overlay file
func LoadVocabularyOverlay(path string) (*VocabularyOverlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary overlay: %w", err)
	}

	var o VocabularyOverlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse vocabulary overlay: %w", err)
	}
	return &o, nil
}

// ApplyOverlay merges overlay entries into the registry's domains.
// Unknown domain names are ignored rather than rejected, so one overlay
// file can serve multiple registry revisions.
func (r *Registry) ApplyOverlay(o *VocabularyOverlay) {
	if o == nil {
		return
	}

	lowerAll := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	for name, words := range o.Keywords {
		if d := r.Domain(name); d != nil {
			d.Keywords = append(d.Keywords, lowerAll(words)...)
		}
	}
	for name, brands := range o.Brands {
		if d := r.Domain(name); d != nil {
			d.Brands = append(d.Brands, lowerAll(brands)...)
		}
	}

	if len(o.Materials) == 0 && len(o.Gemstones) == 0 {
		return
	}
	materials := lowerAll(o.Materials)
	stones := lowerAll(o.Gemstones)
	for _, d := range r.domains {
		if len(d.Materials) > 0 {
			d.Materials = append(d.Materials, materials...)
		}
		if d.StoneKind == model.KindGemstone {
			d.Stones = append(d.Stones, stones...)
		}
	}
}
