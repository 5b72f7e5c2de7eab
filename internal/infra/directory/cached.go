package directory

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"ad-query-service/internal/domain"
)

// Cache keys. Per-parent lookups append the parent id.
const (
	keyCategories     = "directory:categories"
	keyLocations      = "directory:locations"
	keyMainCategories = "directory:main-categories:"
	keySubCategories  = "directory:sub-categories:"
)

// Cached is a read-through cache over a CategoryDirectory. Taxonomies change
// rarely; a cache failure falls back to the upstream lookup, never to an
// error.
type Cached struct {
	upstream domain.CategoryDirectory
	cache    domain.Cache
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCached wraps a directory with a cache.
func NewCached(upstream domain.CategoryDirectory, cache domain.Cache, ttl time.Duration, logger *zap.Logger) *Cached {
	return &Cached{
		upstream: upstream,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// ListCategories returns the top-level categories, cached.
func (c *Cached) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return cachedLookup(ctx, c, keyCategories, c.upstream.ListCategories)
}

// ListMainCategories returns the main categories of one category, cached per
// category.
func (c *Cached) ListMainCategories(ctx context.Context, categoryID string) ([]domain.MainCategory, error) {
	return cachedLookup(ctx, c, keyMainCategories+categoryID, func(ctx context.Context) ([]domain.MainCategory, error) {
		return c.upstream.ListMainCategories(ctx, categoryID)
	})
}

// ListSubCategorySchema returns the attribute schema of one main category,
// cached per main category.
func (c *Cached) ListSubCategorySchema(ctx context.Context, mainCategoryID string) ([]domain.SubCategoryDef, error) {
	return cachedLookup(ctx, c, keySubCategories+mainCategoryID, func(ctx context.Context) ([]domain.SubCategoryDef, error) {
		return c.upstream.ListSubCategorySchema(ctx, mainCategoryID)
	})
}

// ListLocations returns the location taxonomy, cached.
func (c *Cached) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return cachedLookup(ctx, c, keyLocations, c.upstream.ListLocations)
}

// Warm primes the category and location entries, plus the main categories of
// every category. Used by the warm scheduler; per-main-category schemas stay
// lazy, there are too many to prefetch.
func (c *Cached) Warm(ctx context.Context) error {
	if err := c.cache.Delete(ctx, keyCategories); err != nil {
		c.logger.Warn("warm: invalidating categories failed", zap.Error(err))
	}
	if err := c.cache.Delete(ctx, keyLocations); err != nil {
		c.logger.Warn("warm: invalidating locations failed", zap.Error(err))
	}

	categories, err := c.ListCategories(ctx)
	if err != nil {
		return err
	}
	if _, err := c.ListLocations(ctx); err != nil {
		return err
	}

	for _, cat := range categories {
		if err := c.cache.Delete(ctx, keyMainCategories+cat.ID); err != nil {
			c.logger.Warn("warm: invalidating main categories failed",
				zap.String("category_id", cat.ID), zap.Error(err))
		}
		if _, err := c.ListMainCategories(ctx, cat.ID); err != nil {
			return err
		}
	}

	c.logger.Info("directory cache warmed", zap.Int("categories", len(categories)))
	return nil
}

// cachedLookup reads a JSON payload through the cache. Cache errors are
// logged and bypassed.
func cachedLookup[T any](ctx context.Context, c *Cached, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if data, err := c.cache.Get(ctx, key); err == nil && data != nil {
		var out []T
		if err := json.Unmarshal(data, &out); err == nil {
			return out, nil
		}
		// Unreadable payload: drop it and fall through to upstream.
		_ = c.cache.Delete(ctx, key)
	}

	out, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(out); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			c.logger.Warn("directory cache set failed", zap.String("key", key), zap.Error(err))
		}
	}

	return out, nil
}
