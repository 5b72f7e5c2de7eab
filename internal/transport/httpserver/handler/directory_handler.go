package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ad-query-service/internal/domain"
	"ad-query-service/internal/transport/httpserver/dto"
)

// DirectoryHandler serves the category and location taxonomies the facet UI
// renders its pickers from.
type DirectoryHandler struct {
	directory domain.CategoryDirectory
	logger    *zap.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directory domain.CategoryDirectory, logger *zap.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		directory: directory,
		logger:    logger,
	}
}

// Categories handles GET /api/v1/directory/categories
func (h *DirectoryHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.directory.ListCategories(c.Context())
	if err != nil {
		h.logger.Error("listing categories failed", zap.Error(err))

		return directoryError(c, err)
	}

	return c.JSON(dto.CategoriesResponse{Categories: categories})
}

// MainCategories handles GET /api/v1/directory/categories/:id/main-categories
func (h *DirectoryHandler) MainCategories(c *fiber.Ctx) error {
	categoryID := c.Params("id")
	if categoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "id is required",
			Code:  "MISSING_ID",
		})
	}

	mains, err := h.directory.ListMainCategories(c.Context(), categoryID)
	if err != nil {
		h.logger.Error("listing main categories failed",
			zap.String("category_id", categoryID),
			zap.Error(err),
		)

		return directoryError(c, err)
	}

	return c.JSON(dto.MainCategoriesResponse{MainCategories: mains})
}

// SubCategorySchema handles GET /api/v1/directory/main-categories/:id/sub-categories
func (h *DirectoryHandler) SubCategorySchema(c *fiber.Ctx) error {
	mainCategoryID := c.Params("id")
	if mainCategoryID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "id is required",
			Code:  "MISSING_ID",
		})
	}

	schema, err := h.directory.ListSubCategorySchema(c.Context(), mainCategoryID)
	if err != nil {
		h.logger.Error("listing sub-category schema failed",
			zap.String("main_category_id", mainCategoryID),
			zap.Error(err),
		)

		return directoryError(c, err)
	}

	return c.JSON(dto.SubCategorySchemaResponse{SubCategories: schema})
}

// Locations handles GET /api/v1/directory/locations
func (h *DirectoryHandler) Locations(c *fiber.Ctx) error {
	locations, err := h.directory.ListLocations(c.Context())
	if err != nil {
		h.logger.Error("listing locations failed", zap.Error(err))

		return directoryError(c, err)
	}

	return c.JSON(dto.LocationsResponse{Locations: locations})
}

// directoryError maps a collaborator failure to 502, anything else to 500.
func directoryError(c *fiber.Ctx, err error) error {
	if domain.IsTransport(err) {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: "directory backend unavailable",
			Code:  "BACKEND_ERROR",
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: "directory lookup failed",
		Code:  "INTERNAL_ERROR",
	})
}
