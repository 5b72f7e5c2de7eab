// Package directory implements the Category/Location Directory client:
// plain read-only taxonomy lookups. The cascade rules live in the domain
// package, not here.
package directory

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"ad-query-service/internal/domain"
	"ad-query-service/internal/infra/httpclient"
)

// Directory API paths.
const (
	categoriesEndpoint     = "/api/categories"
	mainCategoriesEndpoint = "/api/categories/{categoryId}/main-categories"
	subCategoriesEndpoint  = "/api/main-categories/{mainCategoryId}/sub-categories"
	locationsEndpoint      = "/api/locations"
)

// Client implements domain.CategoryDirectory over the directory's REST API.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a directory client.
func New(cfg httpclient.Config, logger *zap.Logger) *Client {
	return &Client{
		client: httpclient.NewRestyClient(cfg),
		cb:     httpclient.NewCircuitBreaker[*resty.Response]("directory", cfg.CB),
		logger: logger,
	}
}

// ListCategories returns the top-level categories.
func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.get(ctx, categoriesEndpoint, nil, &out); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return out, nil
}

// ListMainCategories returns the main categories of one category.
func (c *Client) ListMainCategories(ctx context.Context, categoryID string) ([]domain.MainCategory, error) {
	var out []domain.MainCategory
	params := map[string]string{"categoryId": categoryID}
	if err := c.get(ctx, mainCategoriesEndpoint, params, &out); err != nil {
		return nil, fmt.Errorf("listing main categories of %s: %w", categoryID, err)
	}
	return out, nil
}

// ListSubCategorySchema returns the attribute schema of one main category.
func (c *Client) ListSubCategorySchema(ctx context.Context, mainCategoryID string) ([]domain.SubCategoryDef, error) {
	var out []domain.SubCategoryDef
	params := map[string]string{"mainCategoryId": mainCategoryID}
	if err := c.get(ctx, subCategoriesEndpoint, params, &out); err != nil {
		return nil, fmt.Errorf("listing sub-category schema of %s: %w", mainCategoryID, err)
	}
	return out, nil
}

// ListLocations returns the location taxonomy.
func (c *Client) ListLocations(ctx context.Context) ([]domain.Location, error) {
	var out []domain.Location
	if err := c.get(ctx, locationsEndpoint, nil, &out); err != nil {
		return nil, fmt.Errorf("listing locations: %w", err)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, pathParams map[string]string, result any) error {
	_, err := c.cb.Execute(func() (*resty.Response, error) {
		req := c.client.R().
			SetContext(ctx).
			SetResult(result)
		if len(pathParams) > 0 {
			req.SetPathParams(pathParams)
		}

		r, err := req.Get(endpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("directory returned status %d", r.StatusCode())
		}
		return r, nil
	})
	if err != nil {
		c.logger.Warn("directory lookup failed",
			zap.String("endpoint", endpoint),
			zap.Error(err),
			zap.String("breaker_state", c.cb.State().String()),
		)
		return &domain.TransportError{Backend: "directory", Err: err}
	}
	return nil
}
