package domain

import "time"

// Ad is the listing summary returned by the backend for browse surfaces.
type Ad struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Price          float64   `json:"price"`
	CategoryID     string    `json:"category_id"`
	MainCategoryID string    `json:"main_category_id"`
	LocationID     string    `json:"location_id"`
	ImageURL       string    `json:"image_url,omitempty"`
	IsNew          bool      `json:"is_new"`
	IsFeatured     bool      `json:"is_featured"`
	IsFavorited    bool      `json:"is_favorited"`
	IsOwner        bool      `json:"is_owner"`
	CreatedAt      time.Time `json:"created_at"`
}

// ResultPage is one page of listing results with the backend's pagination
// metadata. An empty Items slice is a valid result ("no matches"), not an
// error.
type ResultPage struct {
	Items      []Ad  `json:"items"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

// Pager derives pagination control metadata from the page.
func (r *ResultPage) Pager() Pager {
	return Pager{
		Page:       r.PageNumber,
		PageSize:   r.PageSize,
		TotalCount: r.TotalCount,
		TotalPages: r.TotalPages,
	}
}
