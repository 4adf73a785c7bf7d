// Package session wires classification, the query state, market
// resolution and insight fusion into one caller-facing cataloging
// session. A Session replaces ambient shared state with an explicit,
// constructible object: one query state per session, dependencies
// injected at New, lifecycle ended by Reset.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/comparia/comparia/internal/cache"
	"github.com/comparia/comparia/internal/classify"
	"github.com/comparia/comparia/internal/insight"
	"github.com/comparia/comparia/internal/marketdata"
	"github.com/comparia/comparia/internal/model"
	"github.com/comparia/comparia/internal/oracle"
	"github.com/comparia/comparia/internal/query"
)

// Session owns the full analysis flow for one cataloging workflow. The
// query state serializes all selection edits; analyses may run while
// edits happen, so results carry a monotonic token and callers discard
// any snapshot older than LatestToken.
type Session struct {
	cfg        *model.Config
	classifier *classify.Classifier
	state      *query.State
	resolver   *marketdata.Resolver
	engine     *insight.Engine
	oracle     oracle.Provider // nil when disabled
	store      cache.Store     // nil when disabled
	log        zerolog.Logger

	token uint64 // atomic

	mu          sync.Mutex
	valuation   int
	strategyTag string
}

// Option customizes a session at construction
type Option func(*Session)

// WithLogger sets the session logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithClassifier injects a classifier, typically one whose registry
// carries a vocabulary overlay
func WithClassifier(c *classify.Classifier) Option {
	return func(s *Session) { s.classifier = c }
}

// WithOracle injects a classification oracle, overriding configuration
func WithOracle(p oracle.Provider) Option {
	return func(s *Session) { s.oracle = p }
}

// WithStore injects a snapshot store, overriding configuration
func WithStore(st cache.Store) Option {
	return func(s *Session) { s.store = st }
}

// New creates a session around the given search client. The oracle and
// snapshot store are built from configuration unless injected; a failed
// oracle init degrades to rule-based classification with a warning.
func New(cfg *model.Config, client marketdata.SearchClient, opts ...Option) *Session {
	s := &Session{
		cfg:        cfg,
		classifier: classify.NewClassifier(),
		engine:     insight.NewEngine(),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = query.NewState(classify.CoreVocabulary(), cfg.Query.UserFullControl)
	s.resolver = marketdata.NewResolver(client, cfg.Resolver, s.log)

	if s.store == nil {
		s.store = cache.New(cfg.Cache)
	}
	if s.oracle == nil && cfg.Oracle.Provider != "" {
		p, err := oracle.NewProvider(cfg.Oracle, s.log)
		if err != nil {
			s.log.Warn().Err(err).Msg("oracle init failed, continuing rule-based")
		} else {
			s.oracle = p
		}
	}

	// A user edit makes the previous query's cached snapshot stale.
	s.state.Subscribe(func(ch query.Change) {
		if ch.Source != model.SourceUser || s.store == nil || ch.Before == "" {
			return
		}
		s.mu.Lock()
		valuation := s.valuation
		s.mu.Unlock()
		_ = s.store.Delete(cache.SnapshotKey(ch.Before, valuation))
	})

	return s
}

// Initialize seeds the query state directly, for callers that classified
// the item elsewhere. Analyze does this implicitly.
func (s *Session) Initialize(queryText string, candidates []model.Term, source model.Provenance) {
	s.state.Initialize(queryText, candidates, source)
}

// SelectTerm adds a term to the query. Unknown terms become user
// keywords. Reports whether the selection changed.
func (s *Session) SelectTerm(text string) bool {
	return s.state.SelectTerm(text)
}

// DeselectTerm removes a term from the query. Core terms refuse outside
// full-control mode.
func (s *Session) DeselectTerm(text string) bool {
	return s.state.DeselectTerm(text)
}

// GetCurrentQuery returns the canonical query
func (s *Session) GetCurrentQuery() string {
	return s.state.CanonicalQuery()
}

// Terms returns a snapshot of all terms, selected first
func (s *Session) Terms() []model.Term {
	return s.state.Terms()
}

// SetFullControl toggles core-term protection for manual curation
func (s *Session) SetFullControl(on bool) {
	s.state.SetFullControl(on)
}

// Subscribe registers a listener for canonical-query changes
func (s *Session) Subscribe(l query.Listener) {
	s.state.Subscribe(l)
}

// LatestToken returns the token of the newest analysis. Results with a
// smaller token were superseded and should be discarded.
func (s *Session) LatestToken() uint64 {
	return atomic.LoadUint64(&s.token)
}

// Reset returns the session to its initial state, dropping all terms.
// The snapshot store and the token sequence survive, so pre-reset
// results stay identifiably stale.
func (s *Session) Reset() {
	s.state.Reset()
	s.mu.Lock()
	s.valuation = 0
	s.strategyTag = ""
	s.mu.Unlock()
}

// Analyze classifies the item, seeds the query state and resolves
// market data for the resulting canonical query. The caller receives a
// complete snapshot or a resolution error, never partial state.
func (s *Session) Analyze(ctx context.Context, item model.ItemAttributes) (*model.MarketSnapshot, error) {
	syn := s.classifier.Synthesize(item)

	candidates := syn.Terms
	source := model.SourceSystem
	if s.oracle != nil {
		suggestions, err := s.oracle.SuggestTerms(ctx, oracle.SuggestRequest{
			Item:     item,
			Domain:   syn.Domain,
			Terms:    syn.Terms,
			MaxTerms: s.cfg.Oracle.MaxTerms,
		})
		if err != nil {
			s.log.Debug().Err(err).Msg("oracle unavailable, keeping rule-based classification")
		} else {
			candidates = oracle.Terms(suggestions)
			source = model.SourceOracle
		}
	}

	s.state.Initialize(syn.SearchTerms, candidates, source)

	s.mu.Lock()
	s.valuation = item.CatalogerValuation
	s.strategyTag = syn.StrategyTag
	s.mu.Unlock()

	s.log.Info().
		Str("domain", syn.Domain).
		Str("strategy", syn.StrategyTag).
		Float64("confidence", syn.Confidence).
		Str("query", s.state.CanonicalQuery()).
		Msg("classified item")

	return s.resolveAndFuse(ctx, syn.StrategyTag, item.CatalogerValuation)
}

// AnalyzeCurrent re-resolves market data for the current canonical
// query, after selection edits changed it.
func (s *Session) AnalyzeCurrent(ctx context.Context, valuation int) (*model.MarketSnapshot, error) {
	s.mu.Lock()
	s.valuation = valuation
	tag := s.strategyTag
	s.mu.Unlock()

	return s.resolveAndFuse(ctx, tag, valuation)
}

func (s *Session) resolveAndFuse(ctx context.Context, tag string, valuation int) (*model.MarketSnapshot, error) {
	canonical := s.state.CanonicalQuery()
	selected := selectedTerms(s.state.Terms())

	key := cache.SnapshotKey(canonical, valuation)
	if s.store != nil {
		if cached, ok := s.store.Get(key); ok {
			snap := *cached
			snap.Token = atomic.AddUint64(&s.token, 1)
			s.log.Debug().Str("query", canonical).Msg("snapshot served from cache")
			return &snap, nil
		}
	}

	// The two scopes share only the read-only term slice; each ladder
	// stays sequential inside its own goroutine.
	var (
		wg       sync.WaitGroup
		ended    *marketdata.Outcome
		live     *marketdata.Outcome
		endedErr error
		liveErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		ended, endedErr = s.resolver.Resolve(ctx, model.ScopeEnded, selected)
	}()
	go func() {
		defer wg.Done()
		live, liveErr = s.resolver.Resolve(ctx, model.ScopeLive, selected)
	}()
	wg.Wait()

	if endedErr != nil {
		return nil, endedErr
	}
	if liveErr != nil {
		return nil, liveErr
	}

	snap := s.engine.Fuse(marketdata.SummarizeHistorical(ended), marketdata.SummarizeLive(live), valuation)
	snap.Query = canonical
	snap.StrategyTag = tag
	snap.Token = atomic.AddUint64(&s.token, 1)

	if s.store != nil {
		if err := s.store.Set(key, snap, 0); err != nil {
			s.log.Warn().Err(err).Msg("snapshot cache write failed")
		}
	}

	s.log.Info().
		Str("query", canonical).
		Bool("market_data", snap.HasMarketData()).
		Float64("combined_confidence", snap.CombinedConfidence).
		Int("insights", len(snap.Insights)).
		Msg("analysis complete")

	return snap, nil
}

func selectedTerms(terms []model.Term) []model.Term {
	var out []model.Term
	for _, t := range terms {
		if t.IsSelected {
			out = append(out, t)
		}
	}
	return out
}
