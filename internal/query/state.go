// Package query holds the canonical search query for one cataloging
// session. Every consumer reads the same state and every mutation goes
// through it, so the retrieval side and a selection UI can never
// diverge on what query is active.
package query

import (
	"sort"
	"strings"
	"sync"

	"github.com/comparia/comparia/internal/model"
)

// Change describes one canonical-query transition delivered to
// listeners: the query before and after the mutation and which actor
// drove it.
type Change struct {
	Before string
	After  string
	Source model.Provenance
}

// Listener receives query-change notifications. Delivery is synchronous
// and runs under the state's lock: a listener must return quickly and
// must not call back into the state.
type Listener func(Change)

// State is the single source of truth for one session's query. All
// mutation is serialized through an internal lock; concurrent edits are
// safe and listeners always observe a consistent before/after pair.
type State struct {
	mu          sync.Mutex
	canonical   string
	available   []model.Term
	fullControl bool
	lastSource  model.Provenance
	isCore      func(string) bool
	listeners   []Listener
	nextOrd     int
}

// NewState creates an empty query state. isCore decides which term
// texts are protected; nil means no term is ever core. fullControl
// lifts core-term protection for sessions where manual curation is
// trusted over the safety net.
func NewState(isCore func(string) bool, fullControl bool) *State {
	if isCore == nil {
		isCore = func(string) bool { return false }
	}
	return &State{isCore: isCore, fullControl: fullControl}
}

// Initialize seeds the state from a synthesized query and its candidate
// terms, replacing any previous content. When at least one candidate
// arrives pre-selected the supplied flags are trusted as-is (an oracle
// made the call); otherwise selection falls back to matching candidates
// against the query text. Core terms are the candidates found both in
// the query and in the core vocabulary; outside full-control mode they
// are forced selected so the query keeps its search identity.
func (s *State) Initialize(query string, candidates []model.Term, source model.Provenance) {
	s.mu.Lock()
	defer s.mu.Unlock()

	preselected := false
	for _, t := range candidates {
		if t.IsSelected {
			preselected = true
			break
		}
	}

	lowerQuery := strings.ToLower(query)
	s.available = s.available[:0]
	for i, t := range candidates {
		t.Ord = i
		if !preselected {
			t.IsSelected = queryCarries(lowerQuery, t.Text)
		}
		t.IsCore = s.isCore(t.Text) && queryCarries(lowerQuery, t.Text)
		if t.IsCore && !s.fullControl {
			t.IsSelected = true
		}
		s.available = append(s.available, t)
	}
	s.nextOrd = len(s.available)

	s.rebuildLocked(source)
}

// SelectTerm adds a term to the selection. A term not in the candidate
// set is created as a user keyword, since manual input is a legitimate
// term source. Returns false only for blank input.
func (s *State) SelectTerm(term string) bool {
	text := strings.ToLower(strings.TrimSpace(term))
	if text == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(text); i >= 0 {
		if s.available[i].IsSelected {
			return true
		}
		s.available[i].IsSelected = true
		s.rebuildLocked(model.SourceUser)
		return true
	}

	t := model.NewTerm(text, model.KindKeyword, model.SourceUser)
	t.IsSelected = true
	t.Ord = s.nextOrd
	s.nextOrd++
	s.available = append(s.available, t)
	s.rebuildLocked(model.SourceUser)
	return true
}

// DeselectTerm removes a term from the selection. Deselecting a core
// term fails with no state change unless the session is in full-control
// mode. Unknown terms also report false.
func (s *State) DeselectTerm(term string) bool {
	text := strings.ToLower(strings.TrimSpace(term))
	if text == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(text)
	if i < 0 {
		return false
	}
	if s.available[i].IsCore && !s.fullControl {
		return false
	}
	if !s.available[i].IsSelected {
		return true
	}
	s.available[i].IsSelected = false
	s.rebuildLocked(model.SourceUser)
	return true
}

// IsSelected reports whether a term is part of the current selection,
// matching case-insensitively or by period equivalence: "1970" and
// "1970-tal" name the same selection.
func (s *State) IsSelected(term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(strings.ToLower(strings.TrimSpace(term)))
	return i >= 0 && s.available[i].IsSelected
}

// CanonicalQuery returns the current canonical query string
func (s *State) CanonicalQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canonical
}

// Terms returns a snapshot copy of the candidate terms in canonical
// order: selected before deselected, core first within the selection.
func (s *State) Terms() []model.Term {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Term, len(s.available))
	copy(out, s.available)
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].IsSelected != out[b].IsSelected {
			return out[a].IsSelected
		}
		return termLess(out[a], out[b])
	})
	return out
}

// LastMutationSource returns the provenance of the most recent rebuild
func (s *State) LastMutationSource() model.Provenance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSource
}

// SetFullControl toggles core-term protection. Leaving full-control
// mode re-selects any core term removed while it was active, restoring
// the core-selection invariant.
func (s *State) SetFullControl(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fullControl = on
	if on {
		return
	}
	changed := false
	for i := range s.available {
		if s.available[i].IsCore && !s.available[i].IsSelected {
			s.available[i].IsSelected = true
			changed = true
		}
	}
	if changed {
		s.rebuildLocked(model.SourceSystem)
	}
}

// FullControl reports whether core-term protection is lifted
func (s *State) FullControl() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fullControl
}

// Subscribe registers a listener for canonical-query changes
func (s *State) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// RebuildQuery recomputes the canonical query from the current
// selection and records source as the mutation provenance. Selection
// edits rebuild implicitly; this is for callers that changed nothing
// but need a notification cycle, such as after re-classification.
func (s *State) RebuildQuery(source model.Provenance) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildLocked(source)
	return s.canonical
}

// Reset discards all terms and the canonical query. Listeners and the
// full-control setting survive, so a session can be reused for the next
// item.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.canonical
	s.available = nil
	s.canonical = ""
	s.nextOrd = 0
	s.lastSource = model.SourceSystem
	if before != "" {
		s.notifyLocked(before)
	}
}

// rebuildLocked recomputes the canonical query: selected terms ordered
// core-first, then by ascending priority score, then by extraction
// order. Callers hold the lock.
func (s *State) rebuildLocked(source model.Provenance) {
	selected := make([]model.Term, 0, len(s.available))
	for _, t := range s.available {
		if t.IsSelected {
			selected = append(selected, t)
		}
	}
	sort.SliceStable(selected, func(a, b int) bool {
		return termLess(selected[a], selected[b])
	})

	parts := make([]string, len(selected))
	for i, t := range selected {
		parts[i] = t.Text
	}

	before := s.canonical
	s.canonical = strings.Join(parts, " ")
	s.lastSource = source
	if s.canonical != before {
		s.notifyLocked(before)
	}
}

func (s *State) notifyLocked(before string) {
	change := Change{Before: before, After: s.canonical, Source: s.lastSource}
	for _, l := range s.listeners {
		l(change)
	}
}

// indexOf finds the available term matching text, which is already
// lowercased. Callers hold the lock.
func (s *State) indexOf(text string) int {
	for i, t := range s.available {
		if termEquivalent(strings.ToLower(t.Text), text) {
			return i
		}
	}
	return -1
}

// termLess orders terms core-first, then by ascending priority score,
// then by extraction order.
func termLess(a, b model.Term) bool {
	if a.IsCore != b.IsCore {
		return a.IsCore
	}
	if a.PriorityScore != b.PriorityScore {
		return a.PriorityScore < b.PriorityScore
	}
	return a.Ord < b.Ord
}

// termEquivalent matches two lowercased terms: exact, or sharing the
// same embedded 4-digit year.
func termEquivalent(a, b string) bool {
	if a == b {
		return true
	}
	ya, yb := model.YearIn(a), model.YearIn(b)
	return ya != "" && ya == yb
}

// queryCarries reports whether the query text contains the term, either
// as a substring or through period equivalence with one of its tokens.
func queryCarries(lowerQuery, term string) bool {
	term = strings.ToLower(term)
	if term == "" {
		return false
	}
	if strings.Contains(lowerQuery, term) {
		return true
	}
	if year := model.YearIn(term); year != "" {
		for _, tok := range strings.Fields(lowerQuery) {
			if model.YearIn(tok) == year {
				return true
			}
		}
	}
	return false
}
