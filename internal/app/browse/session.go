package browse

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"ad-query-service/internal/domain"
	"ad-query-service/internal/urlsync"
)

// ReadModel is the only surface the UI layer observes. Errors and loading
// are resolved here; nothing propagates past the session boundary.
type ReadModel struct {
	State      domain.FacetState `json:"state"`
	Results    *Results          `json:"results"`
	Pager      domain.Pager      `json:"pager"`
	PageWindow []int             `json:"page_window"`
	IsLoading  bool              `json:"is_loading"`
	Error      string            `json:"error,omitempty"`

	// CanonicalQuery is the minimal query string mirroring the committed
	// state, ready for the address bar.
	CanonicalQuery string `json:"canonical_query"`
	// ReplaceHistory is true when the last commit originated from parsing a
	// URL; mirroring it back must replace the history entry, not push a new
	// one, or every load would double its own entry.
	ReplaceHistory bool `json:"replace_history"`
}

// Session is one UI client's browse state: the committed FacetState, the
// latest results, and the debounced search pipeline. All fields are
// single-writer; mutations replace the state wholesale under the mutex,
// never partially in place.
type Session struct {
	ID string

	engine       *Engine
	siblingCount int
	viewerID     string
	logger       *zap.Logger

	mu         sync.Mutex
	state      domain.FacetState
	results    *Results
	isLoading  bool
	lastError  string
	fromURL    bool
	touchedAt  time.Time

	// generation tags every dispatch; a response whose tag is no longer the
	// latest issued is discarded rather than overwriting fresher results.
	generation atomic.Uint64

	debouncer *SearchDebouncer

	ctx    context.Context
	cancel context.CancelFunc
}

// SessionConfig bundles per-session tunables.
type SessionConfig struct {
	DebounceWindow time.Duration
	SiblingCount   int
	ViewerID       string
}

// NewSession creates a session with the default facet state. No fetch is
// dispatched until the first mutation or ApplyURL.
func NewSession(id string, engine *Engine, cfg SessionConfig, logger *zap.Logger) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	sibling := cfg.SiblingCount
	if sibling < 1 {
		sibling = 1
	}

	s := &Session{
		ID:           id,
		engine:       engine,
		siblingCount: sibling,
		viewerID:     cfg.ViewerID,
		logger:       logger.With(zap.String("session_id", id)),
		state:        domain.DefaultFacetState(),
		touchedAt:    time.Now(),
		ctx:          ctx,
		cancel:       cancel,
	}
	s.debouncer = NewSearchDebouncer(cfg.DebounceWindow, s.dispatch)
	return s
}

// Close cancels any in-flight fetch and any pending debounce timer. Required
// on teardown so a late fire cannot run against a disposed session.
func (s *Session) Close() {
	s.debouncer.Stop()
	s.cancel()
}

// Snapshot returns the current read model.
func (s *Session) Snapshot() ReadModel {
	s.mu.Lock()
	defer s.mu.Unlock()

	pager := s.results.Pager()
	return ReadModel{
		State:          s.state.Clone(),
		Results:        s.results,
		Pager:          pager,
		PageWindow:     pager.Window(s.siblingCount),
		IsLoading:      s.isLoading,
		Error:          s.lastError,
		CanonicalQuery: urlsync.Serialize(s.state),
		ReplaceHistory: s.fromURL,
	}
}

// Touched returns the time of the last mutation or snapshot-worthy activity.
func (s *Session) Touched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt
}

// ApplyURL replays a shared or bookmarked query string into the session and
// dispatches immediately. The resulting commit is tagged so the UI replaces
// its history entry instead of pushing a new one.
func (s *Session) ApplyURL(rawQuery string) error {
	state, err := urlsync.Parse(rawQuery)
	if err != nil {
		return err
	}

	s.commit(state, true)
	s.dispatch()
	return nil
}

// SetFreeText updates the search keyword. Dispatch is debounced while the
// user types; clearing the text fires immediately.
func (s *Session) SetFreeText(text string) {
	s.mu.Lock()
	next := s.state.Clone()
	next.FreeText = text
	next.Page = 1
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.debouncer.Trigger(text == "")
}

// SubmitSearch fires the current text search immediately, cancelling any
// pending debounce window.
func (s *Session) SubmitSearch() {
	s.debouncer.Flush()
}

// SetCategory replaces the category facet, cascading over dependent facets.
// The returned signal tells the caller which schema to re-resolve from the
// directory before rendering filter controls.
func (s *Session) SetCategory(categoryID string) domain.ResolveSignal {
	s.mu.Lock()
	next, signal := domain.OnCategoryChanged(s.state, categoryID)
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.dispatch()
	return signal
}

// SetMainCategory replaces the main-category facet, clearing its attribute
// values.
func (s *Session) SetMainCategory(mainCategoryID string) domain.ResolveSignal {
	s.mu.Lock()
	next, signal := domain.OnMainCategoryChanged(s.state, mainCategoryID)
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.dispatch()
	return signal
}

// SetSubCategoryValue sets or clears one attribute value.
func (s *Session) SetSubCategoryValue(subCategoryID, value string) {
	s.mu.Lock()
	next := domain.OnSubCategoryValueChanged(s.state, subCategoryID, value)
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.dispatch()
}

// SetLocation replaces the location facet.
func (s *Session) SetLocation(locationID string) {
	s.mu.Lock()
	next := s.state.Clone()
	next.LocationID = locationID
	next.Page = 1
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.dispatch()
}

// SetPriceRange replaces both price bounds. An inverted range is rejected:
// the prior committed state is kept and a ValidationError returned.
func (s *Session) SetPriceRange(min, max *float64) error {
	s.mu.Lock()
	next := s.state.Clone()
	next.MinPrice = min
	next.MaxPrice = max
	next.Page = 1
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.dispatch()
	return nil
}

// SetCondition replaces the new/used filter; nil means "any".
func (s *Session) SetCondition(condition *bool) {
	s.mu.Lock()
	next := s.state.Clone()
	next.Condition = condition
	next.Page = 1
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.dispatch()
}

// SetFeaturedFilter replaces the featured filter; nil means "both shelves".
func (s *Session) SetFeaturedFilter(featured *bool) {
	s.mu.Lock()
	next := s.state.Clone()
	next.Featured = featured
	next.Page = 1
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.dispatch()
}

// SetSort replaces the sort order and resets to the first page.
func (s *Session) SetSort(field domain.SortField, descending bool) {
	s.mu.Lock()
	next := s.state.Clone()
	next.SortField = field
	next.SortDescending = descending
	next.Page = 1
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.dispatch()
}

// SetPage navigates to a page, clamped to the known page range. A request
// that clamps to the current page is a no-op and dispatches nothing.
func (s *Session) SetPage(requested int) {
	s.mu.Lock()
	totalPages := s.results.Pager().TotalPages
	if totalPages < 1 {
		// No results have arrived yet, so the only safe page is the first.
		totalPages = 1
	}
	clamped := domain.ClampPage(requested, totalPages)
	if clamped == s.state.Page {
		s.touchedAt = time.Now()
		s.mu.Unlock()
		return
	}
	next := s.state.Clone()
	next.Page = clamped
	s.commitLocked(next, false)
	s.mu.Unlock()

	s.dispatch()
}

// ClearAll resets every facet to its default and refetches.
func (s *Session) ClearAll() {
	s.commit(domain.DefaultFacetState(), false)
	s.dispatch()
}

func (s *Session) commit(next domain.FacetState, fromURL bool) {
	s.mu.Lock()
	s.commitLocked(next, fromURL)
	s.mu.Unlock()
}

// commitLocked replaces the committed state wholesale. Either the new state
// fully commits or, when a caller rejects it beforehand, nothing changes.
func (s *Session) commitLocked(next domain.FacetState, fromURL bool) {
	next.Normalize()
	s.state = next
	s.fromURL = fromURL
	s.touchedAt = time.Now()
}

// dispatch issues a fetch for the current committed state, tagged with a
// fresh generation. The response only lands if its tag is still the latest
// by the time it arrives; the most-recently-initiated request wins.
func (s *Session) dispatch() {
	gen := s.generation.Add(1)

	s.mu.Lock()
	state := s.state.Clone()
	s.isLoading = true
	s.mu.Unlock()

	go func() {
		results, err := s.engine.Fetch(s.ctx, state, s.viewerID)

		s.mu.Lock()
		defer s.mu.Unlock()

		if gen != s.generation.Load() {
			s.logger.Debug("stale response discarded",
				zap.Uint64("generation", gen),
				zap.Uint64("latest", s.generation.Load()),
			)
			return
		}

		s.isLoading = false
		if err != nil {
			if s.ctx.Err() != nil {
				// Session torn down mid-flight; nothing observes this.
				return
			}
			// Previous results stay visible; only the error surfaces.
			s.lastError = err.Error()
			s.logger.Warn("fetch failed", zap.Error(err))
			return
		}

		s.results = results
		s.lastError = ""
	}()
}
