package dto

import (
	"time"

	"ad-query-service/internal/app/browse"
	"ad-query-service/internal/domain"
)

// AdResponse is a single listing summary in a response.
type AdResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Price          float64 `json:"price"`
	CategoryID     string  `json:"category_id,omitempty"`
	MainCategoryID string  `json:"main_category_id,omitempty"`
	LocationID     string  `json:"location_id,omitempty"`
	ImageURL       string  `json:"image_url,omitempty"`
	IsNew          bool    `json:"is_new"`
	IsFeatured     bool    `json:"is_featured"`
	IsFavorited    bool    `json:"is_favorited"`
	IsOwner        bool    `json:"is_owner"`
	CreatedAt      string  `json:"created_at"`
}

// FromDomainAd converts a domain Ad.
func FromDomainAd(a domain.Ad) AdResponse {
	return AdResponse{
		ID:             a.ID,
		Title:          a.Title,
		Price:          a.Price,
		CategoryID:     a.CategoryID,
		MainCategoryID: a.MainCategoryID,
		LocationID:     a.LocationID,
		ImageURL:       a.ImageURL,
		IsNew:          a.IsNew,
		IsFeatured:     a.IsFeatured,
		IsFavorited:    a.IsFavorited,
		IsOwner:        a.IsOwner,
		CreatedAt:      a.CreatedAt.Format(time.RFC3339),
	}
}

// PaginationMeta holds pagination metadata.
type PaginationMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// PageResponse is one page of listings.
type PageResponse struct {
	Items      []AdResponse   `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
	PageWindow []int          `json:"page_window"`
}

// FromResultPage converts a domain ResultPage, including the visible
// page-number window (Ellipsis entries are -1).
func FromResultPage(page *domain.ResultPage, siblingCount int) PageResponse {
	items := make([]AdResponse, len(page.Items))
	for i, a := range page.Items {
		items[i] = FromDomainAd(a)
	}

	return PageResponse{
		Items: items,
		Pagination: PaginationMeta{
			Total:      page.TotalCount,
			Page:       page.PageNumber,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
		PageWindow: domain.VisiblePageWindow(page.PageNumber, page.TotalPages, siblingCount),
	}
}

// ShelvesResponse is the landing/listing view: a featured showcase plus the
// normal results, produced by two disjoint queries over the same criteria.
type ShelvesResponse struct {
	Featured    PageResponse `json:"featured"`
	NonFeatured PageResponse `json:"non_featured"`
	Partitioned bool         `json:"partitioned"`
}

// CanonicalURLResponse is the minimal shareable query string for a state.
type CanonicalURLResponse struct {
	Query string `json:"query"`
}

// SessionResponse is the session's read model for the UI.
type SessionResponse struct {
	SessionID      string         `json:"session_id"`
	State          FacetStateView `json:"state"`
	Results        *ResultsView   `json:"results"`
	Pager          PaginationMeta `json:"pager"`
	PageWindow     []int          `json:"page_window"`
	IsLoading      bool           `json:"is_loading"`
	Error          string         `json:"error,omitempty"`
	CanonicalQuery string         `json:"canonical_query"`
	ReplaceHistory bool           `json:"replace_history"`
	ResolveSignal  string         `json:"resolve_signal,omitempty"`
}

// FacetStateView is the state as the UI renders it.
type FacetStateView struct {
	FreeText          string            `json:"free_text"`
	CategoryID        string            `json:"category_id,omitempty"`
	MainCategoryID    string            `json:"main_category_id,omitempty"`
	SubCategoryValues map[string]string `json:"sub_category_values,omitempty"`
	LocationID        string            `json:"location_id,omitempty"`
	MinPrice          *float64          `json:"min_price"`
	MaxPrice          *float64          `json:"max_price"`
	Condition         *bool             `json:"condition"`
	Featured          *bool             `json:"featured"`
	SortField         string            `json:"sort_field"`
	SortDescending    bool              `json:"sort_descending"`
	Page              int               `json:"page"`
	PageSize          int               `json:"page_size"`
	OwnerScopeID      string            `json:"owner_scope_id,omitempty"`
}

// ResultsView mirrors the engine's result slots.
type ResultsView struct {
	All         *PageResponse `json:"all,omitempty"`
	Featured    *PageResponse `json:"featured,omitempty"`
	NonFeatured *PageResponse `json:"non_featured,omitempty"`
	Partitioned bool          `json:"partitioned"`
}

// FromReadModel converts a session snapshot.
func FromReadModel(sessionID string, m browse.ReadModel, siblingCount int, signal domain.ResolveSignal) SessionResponse {
	resp := SessionResponse{
		SessionID:      sessionID,
		State:          fromFacetState(m.State),
		PageWindow:     m.PageWindow,
		IsLoading:      m.IsLoading,
		Error:          m.Error,
		CanonicalQuery: m.CanonicalQuery,
		ReplaceHistory: m.ReplaceHistory,
		ResolveSignal:  resolveSignalName(signal),
		Pager: PaginationMeta{
			Total:      m.Pager.TotalCount,
			Page:       m.Pager.Page,
			PageSize:   m.Pager.PageSize,
			TotalPages: m.Pager.TotalPages,
		},
	}

	if m.Results != nil {
		view := &ResultsView{Partitioned: m.Results.Partitioned}
		if m.Results.All != nil {
			p := FromResultPage(m.Results.All, siblingCount)
			view.All = &p
		}
		if m.Results.Featured != nil {
			p := FromResultPage(m.Results.Featured, siblingCount)
			view.Featured = &p
		}
		if m.Results.NonFeatured != nil {
			p := FromResultPage(m.Results.NonFeatured, siblingCount)
			view.NonFeatured = &p
		}
		resp.Results = view
	}

	return resp
}

func fromFacetState(s domain.FacetState) FacetStateView {
	return FacetStateView{
		FreeText:          s.FreeText,
		CategoryID:        s.CategoryID,
		MainCategoryID:    s.MainCategoryID,
		SubCategoryValues: s.SubCategoryValues,
		LocationID:        s.LocationID,
		MinPrice:          s.MinPrice,
		MaxPrice:          s.MaxPrice,
		Condition:         s.Condition,
		Featured:          s.Featured,
		SortField:         string(s.SortField),
		SortDescending:    s.SortDescending,
		Page:              s.Page,
		PageSize:          s.PageSize,
		OwnerScopeID:      s.OwnerScopeID,
	}
}

func resolveSignalName(signal domain.ResolveSignal) string {
	switch signal {
	case domain.ResolveMainCategories:
		return "main_categories"
	case domain.ResolveSubCategorySchema:
		return "sub_category_schema"
	default:
		return ""
	}
}

// CategoriesResponse lists the top-level categories.
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// MainCategoriesResponse lists the main categories of one category.
type MainCategoriesResponse struct {
	MainCategories []domain.MainCategory `json:"main_categories"`
}

// SubCategorySchemaResponse lists the attribute schema of one main category.
type SubCategorySchemaResponse struct {
	SubCategories []domain.SubCategoryDef `json:"sub_categories"`
}

// LocationsResponse lists the location taxonomy.
type LocationsResponse struct {
	Locations []domain.Location `json:"locations"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks,omitempty"`
	Timestamp string            `json:"timestamp"`
}
