package urlsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ad-query-service/internal/domain"
)

func floatp(v float64) *float64 { return &v }
func boolp(v bool) *bool        { return &v }

func TestParse_EmptyQueryYieldsDefaults(t *testing.T) {
	state, err := Parse("")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFacetState(), state)
}

func TestParse_FullQuery(t *testing.T) {
	raw := "q=land+cruiser&cat=c-vehicles&mcat=mc-cars&attr=sc-fuel:diesel&attr=sc-gearbox:manual" +
		"&loc=loc-baku&min=15000&max=40000&cond=used&feat=true&sort=price&order=asc&page=3&size=40&owner=seller-9"

	state, err := Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "land cruiser", state.FreeText)
	assert.Equal(t, "c-vehicles", state.CategoryID)
	assert.Equal(t, "mc-cars", state.MainCategoryID)
	assert.Equal(t, map[string]string{"sc-fuel": "diesel", "sc-gearbox": "manual"}, state.SubCategoryValues)
	assert.Equal(t, "loc-baku", state.LocationID)
	require.NotNil(t, state.MinPrice)
	assert.Equal(t, 15000.0, *state.MinPrice)
	require.NotNil(t, state.MaxPrice)
	assert.Equal(t, 40000.0, *state.MaxPrice)
	require.NotNil(t, state.Condition)
	assert.False(t, *state.Condition)
	require.NotNil(t, state.Featured)
	assert.True(t, *state.Featured)
	assert.Equal(t, domain.SortFieldPrice, state.SortField)
	assert.False(t, state.SortDescending)
	assert.Equal(t, 3, state.Page)
	assert.Equal(t, 40, state.PageSize)
	assert.Equal(t, "seller-9", state.OwnerScopeID)
}

func TestParse_DropsOrphanedHierarchy(t *testing.T) {
	// mcat without cat, attrs without mcat: both are cleared, not errors.
	state, err := Parse("mcat=mc-cars&attr=sc-fuel:diesel")

	require.NoError(t, err)
	assert.Empty(t, state.MainCategoryID)
	assert.Nil(t, state.SubCategoryValues)
}

func TestParse_IgnoresUnknownAndMalformed(t *testing.T) {
	state, err := Parse("q=tv&utm_source=share&attr=broken&attr=:novalue&attr=sc-size:")

	require.NoError(t, err)
	assert.Equal(t, "tv", state.FreeText)
	assert.Nil(t, state.SubCategoryValues)
}

func TestParse_NormalizesBounds(t *testing.T) {
	state, err := Parse("page=0&size=99999&sort=bogus")

	require.NoError(t, err)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, domain.MaxPageSize, state.PageSize)
	assert.Equal(t, domain.SortFieldCreatedAt, state.SortField)
}

func TestSerialize_DefaultsProduceEmptyQuery(t *testing.T) {
	assert.Equal(t, "", Serialize(domain.DefaultFacetState()))
}

func TestSerialize_OmitsDefaultKeys(t *testing.T) {
	s := domain.DefaultFacetState()
	s.FreeText = "sofa"
	s.Page = 1 // default, must not appear

	raw := Serialize(s)

	assert.Equal(t, "q=sofa", raw)
}

func TestSerialize_IsDeterministic(t *testing.T) {
	s := domain.DefaultFacetState()
	s.CategoryID = "c-vehicles"
	s.MainCategoryID = "mc-cars"
	s.SubCategoryValues = map[string]string{"sc-gearbox": "manual", "sc-fuel": "diesel", "sc-color": "black"}

	first := Serialize(s)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Serialize(s), "same state must always yield the same URL")
	}
}

// TestRoundTrip checks Parse(Serialize(s)) == s for normalized states; shared
// and bookmarked URLs depend on this holding exactly.
func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		state func() domain.FacetState
	}{
		{
			name:  "defaults",
			state: domain.DefaultFacetState,
		},
		{
			name: "free text only",
			state: func() domain.FacetState {
				s := domain.DefaultFacetState()
				s.FreeText = "canon eos m50"
				return s
			},
		},
		{
			name: "full hierarchy with attributes",
			state: func() domain.FacetState {
				s := domain.DefaultFacetState()
				s.CategoryID = "c-vehicles"
				s.MainCategoryID = "mc-cars"
				s.SubCategoryValues = map[string]string{"sc-fuel": "diesel", "sc-gearbox": "manual"}
				return s
			},
		},
		{
			name: "price range and condition",
			state: func() domain.FacetState {
				s := domain.DefaultFacetState()
				s.MinPrice = floatp(99.5)
				s.MaxPrice = floatp(1500)
				s.Condition = boolp(true)
				return s
			},
		},
		{
			name: "featured shelf with paging and sort",
			state: func() domain.FacetState {
				s := domain.DefaultFacetState()
				s.Featured = boolp(true)
				s.SortField = domain.SortFieldPrice
				s.SortDescending = false
				s.Page = 4
				s.PageSize = 50
				return s
			},
		},
		{
			name: "non-featured filter",
			state: func() domain.FacetState {
				s := domain.DefaultFacetState()
				s.Featured = boolp(false)
				return s
			},
		},
		{
			name: "owner scoped seller view",
			state: func() domain.FacetState {
				s := domain.DefaultFacetState()
				s.OwnerScopeID = "seller-42"
				s.LocationID = "loc-ganja"
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.state()
			want.Normalize()

			got, err := Parse(Serialize(want))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestRoundTrip_PaddedAttributeValues(t *testing.T) {
	s := domain.DefaultFacetState()
	s.CategoryID = "c-vehicles"
	s.MainCategoryID = "mc-cars"
	s.SubCategoryValues = map[string]string{" sc-fuel ": " diesel "}

	// Serialization normalizes the state first, so padded attribute entries
	// serialize trimmed and survive the round trip exactly.
	got, err := Parse(Serialize(s))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sc-fuel": "diesel"}, got.SubCategoryValues)

	s.Normalize()
	assert.Equal(t, s, got)
}

func TestRoundTrip_TextNeedingEscaping(t *testing.T) {
	s := domain.DefaultFacetState()
	s.FreeText = `50% off & "new" <sofa>`

	got, err := Parse(Serialize(s))
	require.NoError(t, err)
	assert.Equal(t, s.FreeText, got.FreeText)
}
