package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/comparia/comparia/internal/model"
)

// ResolutionError reports that the external search capability itself
// failed. It is surfaced immediately: a service fault never enters the
// relaxation ladder, which exists for zero-hit queries only.
type ResolutionError struct {
	Scope model.SearchScope
	Query string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("%s lookup %q failed: %v", e.Scope, e.Query, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Outcome is the terminal result of one backoff ladder. NoData marks
// honest exhaustion: every attempt ran and none matched. That is a
// valid answer about the market, not an error.
type Outcome struct {
	Scope    model.SearchScope
	Listings []model.Listing
	Query    string // query of the successful attempt, "" when NoData
	Attempts []model.SearchAttempt
	NoData   bool
}

// Resolver runs progressive-relaxation lookups: start with the full
// query, drop the least informative term on every zero-hit response,
// and finish with one unquoted emergency attempt before conceding.
type Resolver struct {
	client         SearchClient
	maxRelaxations int
	attemptTimeout time.Duration
	log            zerolog.Logger
}

// NewResolver creates a resolver over the given search client
func NewResolver(client SearchClient, cfg model.ResolverConfig, log zerolog.Logger) *Resolver {
	max := cfg.MaxRelaxations
	if max <= 0 {
		max = 4
	}
	return &Resolver{
		client:         client,
		maxRelaxations: max,
		attemptTimeout: cfg.AttemptTimeout,
		log:            log,
	}
}

// Resolve runs one ladder for the given scope. terms are the selected
// terms in canonical order; the ladder is strictly sequential because
// each reduction depends on the previous attempt coming back empty.
// Ladders for different scopes share nothing and may run concurrently.
func (r *Resolver) Resolve(ctx context.Context, scope model.SearchScope, terms []model.Term) (*Outcome, error) {
	if len(terms) == 0 {
		return &Outcome{Scope: scope, NoData: true}, nil
	}

	var attempts []model.SearchAttempt
	current := make([]model.Term, len(terms))
	copy(current, terms)

	firstQuery := ""
	for relax := 0; ; relax++ {
		query := quotedQuery(current)
		if relax == 0 {
			firstQuery = query
		}

		listings, err := r.search(ctx, query, scope)
		if err != nil {
			return nil, &ResolutionError{Scope: scope, Query: query, Err: err}
		}
		attempts = append(attempts, model.SearchAttempt{
			Query:       query,
			Scope:       scope,
			ResultCount: len(listings),
			Succeeded:   len(listings) > 0,
		})
		r.log.Debug().
			Str("scope", string(scope)).
			Str("query", query).
			Int("results", len(listings)).
			Int("relaxation", relax).
			Msg("market lookup")

		if len(listings) > 0 {
			return &Outcome{Scope: scope, Listings: listings, Query: query, Attempts: attempts}, nil
		}
		if len(current) == 1 || relax == r.maxRelaxations {
			break
		}
		current = dropLowestPriority(current)
	}

	// One last attempt with quoting stripped, unless the ladder never
	// quoted anything and the emergency query would just repeat the
	// first one.
	if emergency := plainQuery(terms); emergency != firstQuery {
		listings, err := r.search(ctx, emergency, scope)
		if err != nil {
			return nil, &ResolutionError{Scope: scope, Query: emergency, Err: err}
		}
		attempts = append(attempts, model.SearchAttempt{
			Query:       emergency,
			Scope:       scope,
			ResultCount: len(listings),
			Succeeded:   len(listings) > 0,
			Emergency:   true,
		})
		r.log.Debug().
			Str("scope", string(scope)).
			Str("query", emergency).
			Int("results", len(listings)).
			Msg("emergency unquoted lookup")

		if len(listings) > 0 {
			return &Outcome{Scope: scope, Listings: listings, Query: emergency, Attempts: attempts}, nil
		}
	}

	return &Outcome{Scope: scope, Attempts: attempts, NoData: true}, nil
}

// search runs a single lookup under the per-attempt timeout
func (r *Resolver) search(ctx context.Context, query string, scope model.SearchScope) ([]model.Listing, error) {
	if r.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.attemptTimeout)
		defer cancel()
	}
	return r.client.Search(ctx, query, scope)
}
