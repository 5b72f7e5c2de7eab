// Package handler provides HTTP handlers for the API.
package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ad-query-service/internal/app/browse"
	"ad-query-service/internal/domain"
	"ad-query-service/internal/transport/httpserver/dto"
	"ad-query-service/internal/urlsync"
)

// BrowseHandler handles stateless ad-query HTTP requests. The full facet
// state travels in the URL query string, in the same format the session
// surface emits as its canonical query.
type BrowseHandler struct {
	engine       *browse.Engine
	siblingCount int
	logger       *zap.Logger
}

// NewBrowseHandler creates a new BrowseHandler.
func NewBrowseHandler(engine *browse.Engine, siblingCount int, logger *zap.Logger) *BrowseHandler {
	return &BrowseHandler{
		engine:       engine,
		siblingCount: siblingCount,
		logger:       logger,
	}
}

// Search handles GET /api/v1/ads
func (h *BrowseHandler) Search(c *fiber.Ctx) error {
	state, err := urlsync.Parse(string(c.Request().URI().QueryString()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	page, err := h.engine.FetchAll(c.Context(), state, viewerID(c))
	if err != nil {
		h.logger.Error("ad query failed", zap.Error(err))

		return backendError(c, err)
	}

	return c.JSON(dto.FromResultPage(page, h.siblingCount))
}

// Shelves handles GET /api/v1/ads/shelves
//
// It always fetches both shelves; a feat filter in the query string is
// ignored here since the endpoint's whole point is the partition.
func (h *BrowseHandler) Shelves(c *fiber.Ctx) error {
	state, err := urlsync.Parse(string(c.Request().URI().QueryString()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}
	state.Featured = nil

	results, err := h.engine.Fetch(c.Context(), state, viewerID(c))
	if err != nil {
		h.logger.Error("shelf query failed", zap.Error(err))

		return backendError(c, err)
	}

	return c.JSON(dto.ShelvesResponse{
		Featured:    dto.FromResultPage(results.Featured, h.siblingCount),
		NonFeatured: dto.FromResultPage(results.NonFeatured, h.siblingCount),
		Partitioned: results.Partitioned,
	})
}

// CanonicalURL handles GET /api/v1/ads/canonical-url
//
// It parses the given query string and serializes the resulting state back
// to its minimal form, so the UI can normalize the address bar without
// running a search.
func (h *BrowseHandler) CanonicalURL(c *fiber.Ctx) error {
	state, err := urlsync.Parse(string(c.Request().URI().QueryString()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}

	return c.JSON(dto.CanonicalURLResponse{Query: urlsync.Serialize(state)})
}

// viewerID extracts the authenticated viewer, if any. Favorited and owner
// flags in results depend on it; anonymous browsing leaves it empty.
func viewerID(c *fiber.Ctx) string {
	return c.Get("X-Viewer-ID")
}

// backendError maps a collaborator failure to 502, anything else to 500.
func backendError(c *fiber.Ctx, err error) error {
	if domain.IsTransport(err) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: "listing backend unavailable",
			Code:  "BACKEND_ERROR",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "ad query failed",
		Code:  "INTERNAL_ERROR",
	})
}
