package domain

// QueryVariant selects how the featured flag of a state is projected into a
// backend query.
type QueryVariant int

const (
	// VariantAll passes the state's featured filter through unchanged.
	VariantAll QueryVariant = iota
	// VariantFeaturedOnly forces isFeatured=true regardless of the state.
	VariantFeaturedOnly
	// VariantNonFeaturedOnly forces isFeatured=false regardless of the state.
	VariantNonFeaturedOnly
)

// AdStatusActive is the only ad status the browse surface queries for.
const AdStatusActive = "active"

// BackendQuery is the normalized request shape of the listing backend.
// Absent filters are sent as explicit nulls, never omitted: the backend
// contract distinguishes "filter not applied" from "filter applied with an
// empty value".
type BackendQuery struct {
	PageNumber   int     `json:"pageNumber"`
	PageSize     int     `json:"pageSize"`
	SortBy       *string `json:"sortBy"`
	IsDescending bool    `json:"isDescending"`

	SearchTitle *string  `json:"searchTitle"`
	MinPrice    *float64 `json:"minPrice"`
	MaxPrice    *float64 `json:"maxPrice"`

	CategoryID     *string `json:"categoryId"`
	MainCategoryID *string `json:"mainCategoryId"`
	LocationID     *string `json:"locationId"`

	IsNew      *bool  `json:"isNew"`
	IsFeatured *bool  `json:"isFeatured"`
	AdStatus   string `json:"adStatus"`

	// CurrentViewerID is used by the backend only to compute per-item
	// isFavorited/isOwner flags, never to filter the result set.
	CurrentViewerID *string `json:"currentViewerId"`
	// OwnerScopeID restricts results to ads owned by that user.
	OwnerScopeID *string `json:"ownerScopeId"`

	SubCategoryValues map[string]string `json:"subCategoryValues"`
}

// BuildQuery maps a FacetState into the backend request shape for the given
// variant. currentViewerID may be empty for anonymous viewers.
//
// When the UI shows a featured shelf and a normal shelf at once, the caller
// builds the same state twice with VariantFeaturedOnly and
// VariantNonFeaturedOnly; the two result sets partition the same criteria
// without overlap.
func BuildQuery(s FacetState, variant QueryVariant, currentViewerID string) BackendQuery {
	s.Normalize()

	q := BackendQuery{
		PageNumber:   s.Page,
		PageSize:     s.PageSize,
		SortBy:       strPtr(string(s.SortField)),
		IsDescending: s.SortDescending,

		SearchTitle: optionalStr(s.FreeText),
		MinPrice:    s.MinPrice,
		MaxPrice:    s.MaxPrice,

		CategoryID:     optionalStr(s.CategoryID),
		MainCategoryID: optionalStr(s.MainCategoryID),
		LocationID:     optionalStr(s.LocationID),

		IsNew:    s.Condition,
		AdStatus: AdStatusActive,

		CurrentViewerID: optionalStr(currentViewerID),
		OwnerScopeID:    optionalStr(s.OwnerScopeID),

		SubCategoryValues: s.SubCategoryValues,
	}

	switch variant {
	case VariantFeaturedOnly:
		q.IsFeatured = boolPtr(true)
	case VariantNonFeaturedOnly:
		q.IsFeatured = boolPtr(false)
	default:
		q.IsFeatured = s.Featured
	}

	return q
}

// optionalStr normalizes an empty string to an explicit null.
func optionalStr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func strPtr(v string) *string { return &v }

func boolPtr(v bool) *bool { return &v }
