package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"
)

type query struct {
	PageNumber   int      `json:"pageNumber"`
	PageSize     int      `json:"pageSize"`
	SortBy       *string  `json:"sortBy"`
	IsDescending bool     `json:"isDescending"`
	SearchTitle  *string  `json:"searchTitle"`
	MinPrice     *float64 `json:"minPrice"`
	MaxPrice     *float64 `json:"maxPrice"`
	CategoryID   *string  `json:"categoryId"`
	IsNew        *bool    `json:"isNew"`
	IsFeatured   *bool    `json:"isFeatured"`
	AdStatus     string   `json:"adStatus"`
}

type ad struct {
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

type page struct {
	Items      []ad  `json:"items"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

// dataset builds a deterministic catalog so repeated queries page stably.
// Every fifth ad is featured; the partition of a query into featured and
// non-featured pages is therefore disjoint.
func dataset() []ad {
	titles := []string{"sofa", "car", "bike", "laptop", "table", "phone", "camera", "guitar"}
	categories := []string{"c-furniture", "c-vehicles", "c-electronics"}
	locations := []string{"l-north", "l-south", "l-east"}

	ads := make([]ad, 0, 200)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		ads = append(ads, ad{
			ID:             fmt.Sprintf("ad-%03d", i),
			Title:          fmt.Sprintf("%s %d", titles[i%len(titles)], i),
			Price:          float64(50 + i*13%900),
			CategoryID:     categories[i%len(categories)],
			MainCategoryID: fmt.Sprintf("mc-%d", i%6),
			LocationID:     locations[i%len(locations)],
			ImageURL:       fmt.Sprintf("https://img.example.com/%03d.jpg", i),
			IsNew:          i%3 == 0,
			IsFeatured:     i%5 == 0,
			CreatedAt:      base.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
		})
	}
	return ads
}

func match(a ad, q query) bool {
	if q.IsFeatured != nil && a.IsFeatured != *q.IsFeatured {
		return false
	}
	if q.SearchTitle != nil && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(*q.SearchTitle)) {
		return false
	}
	if q.CategoryID != nil && a.CategoryID != *q.CategoryID {
		return false
	}
	if q.MinPrice != nil && a.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && a.Price > *q.MaxPrice {
		return false
	}
	if q.IsNew != nil && a.IsNew != *q.IsNew {
		return false
	}
	return true
}

func handleQuery(ads []ad) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q query
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, `{"error":"bad query"}`, http.StatusBadRequest)
			return
		}

		matched := make([]ad, 0)
		for _, a := range ads {
			if match(a, q) {
				matched = append(matched, a)
			}
		}

		if q.SortBy != nil && *q.SortBy == "price" {
			sort.SliceStable(matched, func(i, j int) bool {
				if q.IsDescending {
					return matched[i].Price > matched[j].Price
				}
				return matched[i].Price < matched[j].Price
			})
		} else if q.IsDescending {
			// createdAt descending: the dataset is built ascending
			for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
				matched[i], matched[j] = matched[j], matched[i]
			}
		}

		size := q.PageSize
		if size < 1 {
			size = 20
		}
		number := q.PageNumber
		if number < 1 {
			number = 1
		}
		start := (number - 1) * size
		if start > len(matched) {
			start = len(matched)
		}
		end := start + size
		if end > len(matched) {
			end = len(matched)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(page{
			Items:      matched[start:end],
			PageNumber: number,
			PageSize:   size,
			TotalCount: int64(len(matched)),
			TotalPages: int(math.Ceil(float64(len(matched)) / float64(size))),
		}); err != nil {
			log.Printf("[Listing] Write error: %v", err)
		}

		log.Printf("[Listing] %s %s - %d matched", r.Method, r.URL.Path, len(matched))
	}
}

func main() {
	ads := dataset()

	http.HandleFunc("/api/ads/query", handleQuery(ads))
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Listing] Health write error: %v", err)
		}
	})

	log.Println("Mock listing backend running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
