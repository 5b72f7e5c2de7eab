package domain

import (
	"context"
	"time"
)

// ListingQuerier is the single operation the engine needs from the listing
// backend.
// Implementations: internal/infra/listing/client.go
type ListingQuerier interface {
	// Query executes one normalized backend query and returns one page of
	// results.
	Query(ctx context.Context, q BackendQuery) (*ResultPage, error)
}

// Category is a top-level category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MainCategory is a second-level category belonging to one Category.
type MainCategory struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
}

// SubCategoryDef is one free-form attribute of a main category's schema.
type SubCategoryDef struct {
	ID             string   `json:"id"`
	MainCategoryID string   `json:"main_category_id"`
	Name           string   `json:"name"`
	Options        []string `json:"options,omitempty"`
}

// Location is one entry of the location taxonomy.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryDirectory exposes the category and location taxonomies as plain
// read-only lookups. The cascade rules live in this package, not in the
// directory.
// Implementations: internal/infra/directory/client.go
type CategoryDirectory interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListMainCategories(ctx context.Context, categoryID string) ([]MainCategory, error)
	ListSubCategorySchema(ctx context.Context, mainCategoryID string) ([]SubCategoryDef, error)
	ListLocations(ctx context.Context) ([]Location, error)
}

// Cache defines the interface for caching directory lookups.
// Implementations: internal/infra/redis/cache.go
type Cache interface {
	// Get retrieves a value by key. Returns nil if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all cached values.
	Clear(ctx context.Context) error
}
