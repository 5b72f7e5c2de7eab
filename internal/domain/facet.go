// Package domain holds the core types of the faceted ad-query engine:
// the facet selection state, the category cascade rules, the backend
// query builder and the result pager.
package domain

import "strings"

// SortField represents the field listings are ordered by.
type SortField string

const (
	SortFieldCreatedAt SortField = "createdAt"
	SortFieldPrice     SortField = "price"
)

// Condition filter values for the "isNew" facet.
const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

// Page size bounds applied during normalization.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// FacetState is an immutable snapshot of the full filter/sort/pagination
// selection. It is replaced wholesale on every committed change, never
// mutated in place. Empty string means "absent" for id fields; nil means
// "absent" for the pointer fields.
type FacetState struct {
	FreeText string

	CategoryID        string
	MainCategoryID    string
	SubCategoryValues map[string]string

	LocationID string

	MinPrice *float64
	MaxPrice *float64

	// Condition: true = new, false = used, nil = any.
	Condition *bool

	// Featured: true = only featured, false = only non-featured,
	// nil = both, rendered as two separate shelves.
	Featured *bool

	SortField      SortField
	SortDescending bool

	Page     int
	PageSize int

	OwnerScopeID string
}

// DefaultFacetState returns the state used when no URL parameters are
// present: newest first, first page, no filters.
func DefaultFacetState() FacetState {
	return FacetState{
		SortField:      SortFieldCreatedAt,
		SortDescending: true,
		Page:           1,
		PageSize:       DefaultPageSize,
	}
}

// Clone returns a deep copy of the state. Callers that derive a new state
// must clone first so the committed snapshot is never shared.
func (s FacetState) Clone() FacetState {
	out := s
	if s.SubCategoryValues != nil {
		out.SubCategoryValues = make(map[string]string, len(s.SubCategoryValues))
		for k, v := range s.SubCategoryValues {
			out.SubCategoryValues[k] = v
		}
	}
	if s.MinPrice != nil {
		v := *s.MinPrice
		out.MinPrice = &v
	}
	if s.MaxPrice != nil {
		v := *s.MaxPrice
		out.MaxPrice = &v
	}
	if s.Condition != nil {
		v := *s.Condition
		out.Condition = &v
	}
	if s.Featured != nil {
		v := *s.Featured
		out.Featured = &v
	}
	return out
}

// Normalize corrects out-of-bounds paging and sorting values. This is bound
// correction, not validation: a value outside its range is replaced with the
// nearest valid one.
func (s *FacetState) Normalize() {
	if s.Page < 1 {
		s.Page = 1
	}
	if s.PageSize < 1 {
		s.PageSize = DefaultPageSize
	}
	if s.PageSize > MaxPageSize {
		s.PageSize = MaxPageSize
	}
	if s.SortField != SortFieldCreatedAt && s.SortField != SortFieldPrice {
		s.SortField = SortFieldCreatedAt
	}

	// Hierarchy invariants: a child selection without its parent is dropped,
	// never surfaced as an error.
	if s.CategoryID == "" && s.MainCategoryID != "" {
		s.MainCategoryID = ""
	}
	if s.MainCategoryID == "" && len(s.SubCategoryValues) > 0 {
		s.SubCategoryValues = nil
	}

	// Attribute ids and values are kept whitespace-trimmed so the same
	// state always serializes to the same URL.
	if len(s.SubCategoryValues) > 0 {
		trimmed := make(map[string]string, len(s.SubCategoryValues))
		for id, value := range s.SubCategoryValues {
			id = strings.TrimSpace(id)
			value = strings.TrimSpace(value)
			if id == "" || value == "" {
				continue
			}
			trimmed[id] = value
		}
		s.SubCategoryValues = trimmed
	}
	if len(s.SubCategoryValues) == 0 {
		s.SubCategoryValues = nil
	}
}

// Validate reports locally detectable inconsistencies. The caller keeps the
// prior committed state when validation fails.
func (s *FacetState) Validate() error {
	if s.MinPrice != nil && *s.MinPrice < 0 {
		return &ValidationError{Field: "minPrice", Message: "minPrice must not be negative"}
	}
	if s.MaxPrice != nil && *s.MaxPrice < 0 {
		return &ValidationError{Field: "maxPrice", Message: "maxPrice must not be negative"}
	}
	if s.MinPrice != nil && s.MaxPrice != nil && *s.MinPrice > *s.MaxPrice {
		return &ValidationError{Field: "minPrice", Message: "minPrice must not exceed maxPrice"}
	}
	return nil
}

// HasTextFilter reports whether a free-text filter is applied.
func (s *FacetState) HasTextFilter() bool {
	return s.FreeText != ""
}
