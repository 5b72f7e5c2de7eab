// Package browse implements the faceted ad-query engine: it derives backend
// queries from a facet state, dispatches them, and keeps the read model the
// UI observes.
package browse

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"ad-query-service/internal/domain"
)

// Results holds the result slots of one committed state. When the featured
// filter is absent the landing view shows two shelves, filled by two backend
// queries that partition the same criteria by the featured flag; otherwise a
// single result set is used.
type Results struct {
	All         *domain.ResultPage `json:"all,omitempty"`
	Featured    *domain.ResultPage `json:"featured,omitempty"`
	NonFeatured *domain.ResultPage `json:"non_featured,omitempty"`

	// Partitioned reports whether the shelves came from two separate
	// backend calls. An ad whose featured flag changes between the calls
	// can briefly appear in both shelves or neither; callers that care can
	// detect the split through this flag.
	Partitioned bool `json:"partitioned"`
}

// Pager returns the pagination metadata of the result set that drives page
// controls: the non-featured shelf in partitioned mode (the featured shelf
// is a fixed-size showcase), the single set otherwise.
func (r *Results) Pager() domain.Pager {
	switch {
	case r == nil:
		return domain.Pager{}
	case r.Partitioned && r.NonFeatured != nil:
		return r.NonFeatured.Pager()
	case r.All != nil:
		return r.All.Pager()
	default:
		return domain.Pager{}
	}
}

// Engine turns committed facet states into listing backend calls.
type Engine struct {
	listings domain.ListingQuerier
	logger   *zap.Logger
}

// NewEngine creates an Engine over the listing backend.
func NewEngine(listings domain.ListingQuerier, logger *zap.Logger) *Engine {
	return &Engine{
		listings: listings,
		logger:   logger,
	}
}

// FetchAll executes a single unpartitioned query. The featured filter is
// honored when set; when absent the page simply mixes both kinds.
func (e *Engine) FetchAll(ctx context.Context, state domain.FacetState, currentViewerID string) (*domain.ResultPage, error) {
	state.Normalize()

	page, err := e.listings.Query(ctx, domain.BuildQuery(state, domain.VariantAll, currentViewerID))
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}

	return page, nil
}

// Fetch executes the query (or query pair) derived from state.
// currentViewerID may be empty for anonymous viewers.
func (e *Engine) Fetch(ctx context.Context, state domain.FacetState, currentViewerID string) (*Results, error) {
	state.Normalize()

	if state.Featured != nil {
		page, err := e.listings.Query(ctx, domain.BuildQuery(state, domain.VariantAll, currentViewerID))
		if err != nil {
			return nil, fmt.Errorf("querying listings: %w", err)
		}
		return &Results{All: page}, nil
	}

	// Two shelves at once. The backend's single-query contract cannot return
	// "some of each" in one page without risking duplicates between the
	// shelves, so both partitions are fetched.
	var (
		wg           sync.WaitGroup
		vip, normal  *domain.ResultPage
		vipErr, nErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		vip, vipErr = e.listings.Query(ctx, domain.BuildQuery(state, domain.VariantFeaturedOnly, currentViewerID))
	}()
	go func() {
		defer wg.Done()
		normal, nErr = e.listings.Query(ctx, domain.BuildQuery(state, domain.VariantNonFeaturedOnly, currentViewerID))
	}()
	wg.Wait()

	if vipErr != nil {
		return nil, fmt.Errorf("querying featured shelf: %w", vipErr)
	}
	if nErr != nil {
		return nil, fmt.Errorf("querying non-featured shelf: %w", nErr)
	}

	e.logger.Debug("shelves fetched",
		zap.Int("featured_items", len(vip.Items)),
		zap.Int("normal_items", len(normal.Items)),
	)

	return &Results{
		Featured:    vip,
		NonFeatured: normal,
		Partitioned: true,
	}, nil
}
