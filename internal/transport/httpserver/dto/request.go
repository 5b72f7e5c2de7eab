// Package dto provides Data Transfer Objects for HTTP requests and
// responses.
package dto

// CreateSessionRequest opens a browse session, optionally seeded from the
// query string of the URL the UI loaded with.
type CreateSessionRequest struct {
	ViewerID string `json:"viewer_id" validate:"omitempty,max=64"`
	Query    string `json:"query" validate:"omitempty,max=2048"`
}

// InputRequest carries one free-text keystroke state. Dispatch is debounced;
// an empty text fires immediately.
type InputRequest struct {
	Text string `json:"text" validate:"max=200"`
}

// MutateRequest applies facet mutations to a session. Only the fields
// present are applied; each maps to one mutation of the engine's surface.
type MutateRequest struct {
	CategoryID       *string  `json:"category_id" validate:"omitempty,max=64"`
	MainCategoryID   *string  `json:"main_category_id" validate:"omitempty,max=64"`
	SubCategoryID    *string  `json:"sub_category_id" validate:"omitempty,max=64"`
	SubCategoryValue *string  `json:"sub_category_value" validate:"omitempty,max=200"`
	LocationID       *string  `json:"location_id" validate:"omitempty,max=64"`
	MinPrice         *float64 `json:"min_price" validate:"omitempty,min=0"`
	MaxPrice         *float64 `json:"max_price" validate:"omitempty,min=0"`
	SetPriceRange    bool     `json:"set_price_range"`
	Condition        *bool    `json:"condition"`
	SetCondition     bool     `json:"set_condition"`
	Featured         *bool    `json:"featured"`
	SetFeatured      bool     `json:"set_featured"`
	SortField        *string  `json:"sort_field" validate:"omitempty,oneof=createdAt price"`
	SortDescending   *bool    `json:"sort_descending"`
	Page             *int     `json:"page"`
	ClearAll         bool     `json:"clear_all"`
}
