package browse

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ad-query-service/internal/domain"
)

// fakeListings is a controllable ListingQuerier. Per-query delay is keyed on
// the search title so staleness scenarios can race a slow old request
// against a fast new one.
type fakeListings struct {
	mu      sync.Mutex
	calls   []domain.BackendQuery
	delays  map[string]time.Duration
	failing atomic.Bool
	total   int64
}

func newFakeListings(total int64) *fakeListings {
	return &fakeListings{delays: map[string]time.Duration{}, total: total}
}

func (f *fakeListings) Query(ctx context.Context, q domain.BackendQuery) (*domain.ResultPage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q)
	title := ""
	if q.SearchTitle != nil {
		title = *q.SearchTitle
	}
	delay := f.delays[title]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.failing.Load() {
		return nil, errors.New("backend unavailable")
	}

	pageSize := q.PageSize
	totalPages := int(f.total) / pageSize
	if int(f.total)%pageSize > 0 {
		totalPages++
	}

	return &domain.ResultPage{
		Items:      []domain.Ad{{ID: "ad-1", Title: title}},
		PageNumber: q.PageNumber,
		PageSize:   pageSize,
		TotalCount: f.total,
		TotalPages: totalPages,
	}, nil
}

func (f *fakeListings) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeListings) lastCall() domain.BackendQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newTestSession(t *testing.T, listings domain.ListingQuerier) *Session {
	t.Helper()

	engine := NewEngine(listings, zap.NewNop())
	s := NewSession("test-session", engine, SessionConfig{
		DebounceWindow: testWindow,
		SiblingCount:   1,
		ViewerID:       "viewer-1",
	}, zap.NewNop())
	t.Cleanup(s.Close)
	return s
}

func waitSettled(t *testing.T, s *Session) ReadModel {
	t.Helper()

	require.Eventually(t, func() bool {
		m := s.Snapshot()
		return !m.IsLoading
	}, 2*time.Second, 5*time.Millisecond, "session never settled")
	return s.Snapshot()
}

func TestSession_TypingDebouncesToOneDispatch(t *testing.T) {
	listings := newFakeListings(10)
	s := newTestSession(t, listings)

	s.SetFreeText("s")
	time.Sleep(10 * time.Millisecond)
	s.SetFreeText("so")
	time.Sleep(10 * time.Millisecond)
	s.SetFreeText("sof")

	assert.Equal(t, 0, listings.callCount(), "nothing may dispatch while typing")

	time.Sleep(3 * testWindow)
	m := waitSettled(t, s)

	// One dispatch; the default state has no featured filter, so it fans out
	// into the two shelf queries.
	assert.Equal(t, 2, listings.callCount())
	require.NotNil(t, listings.lastCall().SearchTitle)
	assert.Equal(t, "sof", *listings.lastCall().SearchTitle, "the fire must read the latest text")
	assert.Equal(t, "sof", m.State.FreeText)
}

func TestSession_ClearingTextFiresImmediately(t *testing.T) {
	listings := newFakeListings(10)
	s := newTestSession(t, listings)

	s.SetFreeText("sofa")
	s.SetFreeText("")

	// No debounce window: the dispatch happens synchronously with the clear.
	m := waitSettled(t, s)
	assert.GreaterOrEqual(t, listings.callCount(), 2)
	assert.Nil(t, listings.lastCall().SearchTitle)
	assert.Empty(t, m.State.FreeText)
}

func TestSession_SubmitFiresImmediately(t *testing.T) {
	listings := newFakeListings(10)
	s := newTestSession(t, listings)

	s.SetFreeText("car")
	s.SubmitSearch()

	m := waitSettled(t, s)
	require.NotNil(t, listings.lastCall().SearchTitle)
	assert.Equal(t, "car", *listings.lastCall().SearchTitle)
	assert.Empty(t, m.Error)

	// The cancelled debounce window must not dispatch again.
	before := listings.callCount()
	time.Sleep(3 * testWindow)
	assert.Equal(t, before, listings.callCount())
}

// TestSession_StaleResponseDiscarded is the latest-wins ordering guarantee: a
// slow response from an older dispatch must not overwrite the results of a
// newer one.
func TestSession_StaleResponseDiscarded(t *testing.T) {
	listings := newFakeListings(10)
	listings.mu.Lock()
	listings.delays["car"] = 120 * time.Millisecond
	listings.delays["cars"] = 10 * time.Millisecond
	listings.mu.Unlock()

	s := newTestSession(t, listings)

	s.SetFreeText("car")
	s.SubmitSearch()
	time.Sleep(20 * time.Millisecond)
	s.SetFreeText("cars")
	s.SubmitSearch()

	// Wait past the slow response's arrival.
	time.Sleep(300 * time.Millisecond)
	m := waitSettled(t, s)

	require.NotNil(t, m.Results)
	require.NotNil(t, m.Results.NonFeatured)
	require.NotEmpty(t, m.Results.NonFeatured.Items)
	assert.Equal(t, "cars", m.Results.NonFeatured.Items[0].Title,
		"the most-recently-initiated request must win")
}

func TestSession_TransportErrorKeepsPreviousResults(t *testing.T) {
	listings := newFakeListings(10)
	s := newTestSession(t, listings)

	s.SetFreeText("tv")
	s.SubmitSearch()
	m := waitSettled(t, s)
	require.NotNil(t, m.Results)
	require.Empty(t, m.Error)

	listings.failing.Store(true)
	s.SetLocation("loc-baku")
	m = waitSettled(t, s)

	assert.NotEmpty(t, m.Error, "the failure surfaces in the read model")
	require.NotNil(t, m.Results, "previous results stay visible on transport failure")
	assert.Equal(t, "tv", m.Results.NonFeatured.Items[0].Title)

	// A later successful fetch clears the error.
	listings.failing.Store(false)
	s.SetLocation("loc-ganja")
	m = waitSettled(t, s)
	assert.Empty(t, m.Error)
}

func TestSession_FeaturedFilterUsesSingleQuery(t *testing.T) {
	listings := newFakeListings(10)
	s := newTestSession(t, listings)

	featured := true
	s.SetFeaturedFilter(&featured)
	m := waitSettled(t, s)

	assert.Equal(t, 1, listings.callCount(), "an explicit featured filter needs no shelf split")
	require.NotNil(t, m.Results.All)
	assert.False(t, m.Results.Partitioned)
	require.NotNil(t, listings.lastCall().IsFeatured)
	assert.True(t, *listings.lastCall().IsFeatured)
}

func TestSession_PageChangeClampsAndSkipsNoop(t *testing.T) {
	listings := newFakeListings(95) // 5 pages at the default page size
	s := newTestSession(t, listings)

	s.SubmitSearch()
	m := waitSettled(t, s)
	totalPages := m.Pager.TotalPages
	require.Greater(t, totalPages, 1)

	// Out-of-range request clamps to the last page.
	s.SetPage(999)
	m = waitSettled(t, s)
	assert.Equal(t, totalPages, m.State.Page)

	// Below-range request clamps to the first page.
	s.SetPage(0)
	m = waitSettled(t, s)
	assert.Equal(t, 1, m.State.Page)

	// Re-requesting the current page is a no-op: no new dispatch.
	before := listings.callCount()
	s.SetPage(1)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, listings.callCount())
}

func TestSession_PageChangeBeforeFirstFetchStaysOnPageOne(t *testing.T) {
	listings := newFakeListings(95)
	s := newTestSession(t, listings)

	// The page range is unknown until results arrive, so any jump clamps
	// down to the first page and nothing dispatches.
	s.SetPage(999)
	time.Sleep(3 * testWindow)

	assert.Equal(t, 0, listings.callCount())
	assert.Equal(t, 1, s.Snapshot().State.Page)
}

func TestSession_CascadeThroughMutations(t *testing.T) {
	listings := newFakeListings(10)
	s := newTestSession(t, listings)

	signal := s.SetCategory("c-vehicles")
	assert.Equal(t, domain.ResolveMainCategories, signal)

	signal = s.SetMainCategory("mc-cars")
	assert.Equal(t, domain.ResolveSubCategorySchema, signal)

	s.SetSubCategoryValue("sc-fuel", "diesel")
	m := waitSettled(t, s)
	assert.Equal(t, map[string]string{"sc-fuel": "diesel"}, m.State.SubCategoryValues)

	// Changing the category clears everything beneath it.
	s.SetCategory("c-electronics")
	m = waitSettled(t, s)
	assert.Empty(t, m.State.MainCategoryID)
	assert.Empty(t, m.State.SubCategoryValues)
}

func TestSession_ApplyURLTagsHistoryReplace(t *testing.T) {
	listings := newFakeListings(10)
	s := newTestSession(t, listings)

	require.NoError(t, s.ApplyURL("q=sofa&cat=c-furniture"))
	m := waitSettled(t, s)

	assert.True(t, m.ReplaceHistory, "URL-originated commits replace history")
	assert.Equal(t, "sofa", m.State.FreeText)
	assert.Equal(t, "cat=c-furniture&q=sofa", m.CanonicalQuery)

	// The next user mutation pushes history again.
	s.SetLocation("loc-baku")
	m = waitSettled(t, s)
	assert.False(t, m.ReplaceHistory)
}

func TestSession_PriceRangeValidation(t *testing.T) {
	listings := newFakeListings(10)
	s := newTestSession(t, listings)

	min, max := 100.0, 50.0
	err := s.SetPriceRange(&min, &max)

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	m := s.Snapshot()
	assert.Nil(t, m.State.MinPrice, "rejected mutation keeps the prior committed state")
	assert.Equal(t, 0, listings.callCount(), "a rejected mutation dispatches nothing")

	min, max = 50.0, 100.0
	require.NoError(t, s.SetPriceRange(&min, &max))
	m = waitSettled(t, s)
	require.NotNil(t, m.State.MinPrice)
	assert.Equal(t, 50.0, *m.State.MinPrice)
}

func TestSession_ClearAllResetsToDefaults(t *testing.T) {
	listings := newFakeListings(10)
	s := newTestSession(t, listings)

	require.NoError(t, s.ApplyURL("q=sofa&cat=c-furniture&page=3"))
	waitSettled(t, s)

	s.ClearAll()
	m := waitSettled(t, s)

	assert.Equal(t, domain.DefaultFacetState(), m.State)
	assert.Equal(t, "", m.CanonicalQuery)
}

func TestSessionStore_LifecycleAndExpiry(t *testing.T) {
	listings := newFakeListings(10)
	engine := NewEngine(listings, zap.NewNop())
	store := NewSessionStore(engine, StoreConfig{
		DebounceWindow: testWindow,
		SiblingCount:   1,
		IdleTTL:        80 * time.Millisecond,
		SweepInterval:  20 * time.Millisecond,
	}, zap.NewNop())
	defer store.Close()

	session, err := store.Create("viewer-1", "q=sofa")
	require.NoError(t, err)
	assert.Same(t, session, store.Get(session.ID))
	assert.Equal(t, 1, store.Count())

	require.Eventually(t, func() bool {
		return store.Get(session.ID) == nil
	}, 2*time.Second, 10*time.Millisecond, "idle session must expire")

	// Delete is idempotent even after expiry.
	store.Delete(session.ID)
	assert.Equal(t, 0, store.Count())
}
