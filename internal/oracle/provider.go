// Package oracle asks an external language model to refine the
// rule-based classification of a catalog item into search terms. The
// oracle is strictly optional: an unavailable provider, a transport
// failure or a malformed payload all leave the caller on the rule-based
// path.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/comparia/comparia/internal/model"
)

// ErrMalformedResponse reports an oracle payload that could not be
// parsed into suggestions. It is never surfaced to the user; the
// session logs it at debug level and keeps the rule-based terms.
var ErrMalformedResponse = errors.New("malformed oracle response")

// defaultMaxTerms caps suggestion counts when neither the request nor
// the configuration sets a limit.
const defaultMaxTerms = 8

// Provider defines the interface for classification oracles
type Provider interface {
	// Name returns the provider name
	Name() string

	// SuggestTerms proposes search terms for a catalog item
	SuggestTerms(ctx context.Context, req SuggestRequest) ([]TermSuggestion, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SuggestRequest contains the item under classification and the
// rule-based result the oracle may refine
type SuggestRequest struct {
	// Item is the raw cataloging input
	Item model.ItemAttributes

	// Domain and Terms carry the rule-based classification as context.
	// Both may be empty.
	Domain string
	Terms  []model.Term

	// MaxTerms caps the suggestion count (0 = provider default)
	MaxTerms int
}

// TermSuggestion is one oracle-proposed search term. PreSelected marks
// terms the oracle wants in the query immediately; the query state
// trusts these flags when any suggestion carries one.
type TermSuggestion struct {
	Term        string  `json:"term"`
	Kind        string  `json:"kind"`
	PreSelected bool    `json:"preselected"`
	Confidence  float64 `json:"confidence"`
}

// Terms converts suggestions into oracle-sourced candidate terms,
// preserving suggestion order and mapping unknown kinds to keywords.
func Terms(suggestions []TermSuggestion) []model.Term {
	out := make([]model.Term, 0, len(suggestions))
	for i, s := range suggestions {
		t := model.NewTerm(s.Term, kindOf(s.Kind), model.SourceOracle)
		t.IsSelected = s.PreSelected
		t.Ord = i
		out = append(out, t)
	}
	return out
}

func kindOf(kind string) model.TermKind {
	switch k := model.TermKind(kind); k {
	case model.KindBrand, model.KindModel, model.KindObjectType, model.KindMaterial,
		model.KindGemstone, model.KindDenomination, model.KindPeriod, model.KindCountry:
		return k
	default:
		return model.KindKeyword
	}
}

// systemPrompt pins the response to a single JSON object
const systemPrompt = "You suggest marketplace search terms for auction catalog items. Respond with a single JSON object and nothing else."

// buildPrompt constructs the suggestion prompt for a request
func buildPrompt(req SuggestRequest, maxTerms int) string {
	var b strings.Builder
	b.WriteString("Suggest search terms for finding comparable marketplace listings of this auction item.\n\nItem:\n")
	fmt.Fprintf(&b, "- Object type: %s\n", orDash(req.Item.ObjectType))
	fmt.Fprintf(&b, "- Title: %s\n", orDash(req.Item.Title))
	fmt.Fprintf(&b, "- Description: %s\n", orDash(req.Item.Description))

	if req.Domain != "" || len(req.Terms) > 0 {
		fmt.Fprintf(&b, "\nRule-based classification: domain %q, terms: %s\n",
			req.Domain, joinTermTexts(req.Terms))
	}

	fmt.Fprintf(&b, `
Respond with JSON in exactly this shape:
{"terms": [{"term": "omega", "kind": "brand", "preselected": true, "confidence": 0.9}]}

Rules:
1. At most %d terms, lowercase, each taken from the item text.
2. kind is one of: brand, model, object_type, material, gemstone, denomination, period, country, keyword.
3. preselected marks terms that belong in the search query immediately.
4. confidence is between 0.0 and 1.0.
`, maxTerms)

	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func joinTermTexts(terms []model.Term) string {
	if len(terms) == 0 {
		return "(none)"
	}
	texts := make([]string, len(terms))
	for i, t := range terms {
		texts[i] = t.Text
	}
	return strings.Join(texts, ", ")
}

// parseSuggestions decodes a provider payload. Anything that does not
// yield at least one usable suggestion is malformed.
func parseSuggestions(data []byte, maxTerms int) ([]TermSuggestion, error) {
	var wrapped struct {
		Terms []TermSuggestion `json:"terms"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var out []TermSuggestion
	for _, s := range wrapped.Terms {
		s.Term = strings.ToLower(strings.TrimSpace(s.Term))
		if s.Term == "" {
			continue
		}
		s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
		if s.Confidence < 0 {
			s.Confidence = 0
		}
		if s.Confidence > 1 {
			s.Confidence = 1
		}
		out = append(out, s)
		if len(out) == maxTerms {
			break
		}
	}
	if len(out) == 0 {
		return nil, ErrMalformedResponse
	}
	return out, nil
}
