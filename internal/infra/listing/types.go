package listing

import (
	"time"

	"ad-query-service/internal/domain"
)

// queryResponse is the backend's response shape for the query endpoint. The
// backend owns this single normalized contract; any shape variance is
// resolved on its side, not probed for here.
type queryResponse struct {
	Items      []adItem `json:"items"`
	PageNumber int      `json:"pageNumber"`
	PageSize   int      `json:"pageSize"`
	TotalCount int64    `json:"totalCount"`
	TotalPages int      `json:"totalPages"`
}

// adItem is one listing summary as the backend returns it.
type adItem struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Price          float64 `json:"price"`
	CategoryID     string  `json:"categoryId"`
	MainCategoryID string  `json:"mainCategoryId"`
	LocationID     string  `json:"locationId"`
	ImageURL       string  `json:"imageUrl"`
	IsNew          bool    `json:"isNew"`
	IsFeatured     bool    `json:"isFeatured"`
	IsFavorited    bool    `json:"isFavorited"`
	IsOwner        bool    `json:"isOwner"`
	CreatedAt      string  `json:"createdAt"`
}

// ToDomain converts the response to a domain ResultPage.
func (r *queryResponse) ToDomain() *domain.ResultPage {
	items := make([]domain.Ad, len(r.Items))
	for i, it := range r.Items {
		items[i] = it.toDomain()
	}

	return &domain.ResultPage{
		Items:      items,
		PageNumber: r.PageNumber,
		PageSize:   r.PageSize,
		TotalCount: r.TotalCount,
		TotalPages: r.TotalPages,
	}
}

func (a *adItem) toDomain() domain.Ad {
	createdAt, _ := time.Parse(time.RFC3339, a.CreatedAt)

	return domain.Ad{
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
		CreatedAt:      createdAt,
	}
}
