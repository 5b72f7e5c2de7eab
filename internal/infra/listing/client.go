// Package listing implements the Listing Query Service client: the single
// query() operation the engine consumes.
package listing

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"ad-query-service/internal/domain"
	"ad-query-service/internal/infra/httpclient"
)

// QueryEndpoint is the backend's normalized query endpoint.
const QueryEndpoint = "/api/ads/query"

// Client implements domain.ListingQuerier over the listing backend's REST
// API.
type Client struct {
	client *resty.Client
	cb     *gobreaker.CircuitBreaker[*resty.Response]
	logger *zap.Logger
}

// New creates a listing backend client.
func New(cfg httpclient.Config, logger *zap.Logger) *Client {
	return &Client{
		client: httpclient.NewRestyClient(cfg),
		cb:     httpclient.NewCircuitBreaker[*resty.Response]("listing-backend", cfg.CB),
		logger: logger,
	}
}

// Query executes one normalized backend query. The request body carries
// explicit nulls for absent filters; the backend distinguishes "not applied"
// from "applied with empty value".
func (c *Client) Query(ctx context.Context, q domain.BackendQuery) (*domain.ResultPage, error) {
	resp, err := c.cb.Execute(func() (*resty.Response, error) {
		var result queryResponse
		r, err := c.client.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(q).
			SetResult(&result).
			Post(QueryEndpoint)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("listing backend returned status %d", r.StatusCode())
		}

		return r, nil
	})
	if err != nil {
		c.logger.Warn("listing query failed",
			zap.Error(err),
			zap.String("breaker_state", c.cb.State().String()),
		)

		return nil, &domain.TransportError{Backend: "listing", Err: err}
	}

	result := resp.Result().(*queryResponse)
	page := result.ToDomain()

	c.logger.Debug("listing query completed",
		zap.Int("items", len(page.Items)),
		zap.Int64("total", page.TotalCount),
		zap.Int("page", page.PageNumber),
	)

	return page, nil
}

// HealthCheck verifies the backend is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned status %d", resp.StatusCode())
	}

	return nil
}
