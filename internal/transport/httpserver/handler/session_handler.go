package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"ad-query-service/internal/app/browse"
	"ad-query-service/internal/domain"
	"ad-query-service/internal/transport/httpserver/dto"
	"ad-query-service/internal/validator"
)

// SessionHandler exposes the stateful browse surface: each session holds a
// committed facet state, debounced text input, and the latest results.
type SessionHandler struct {
	store        *browse.SessionStore
	siblingCount int
	validator    *validator.Validator
	logger       *zap.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(store *browse.SessionStore, siblingCount int, v *validator.Validator, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		store:        store,
		siblingCount: siblingCount,
		validator:    v,
		logger:       logger,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	sess, err := h.store.Create(req.ViewerID, req.Query)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid seed query",
			Code:  "INVALID_PARAMS",
		})
	}

	h.logger.Info("session created",
		zap.String("session_id", sess.ID),
		zap.Bool("seeded", req.Query != ""),
	)

	return c.Status(fiber.StatusCreated).JSON(h.snapshot(sess, domain.ResolveNone))
}

// Get handles GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	sess := h.store.Get(c.Params("id"))
	if sess == nil {
		return sessionNotFound(c)
	}

	return c.JSON(h.snapshot(sess, domain.ResolveNone))
}

// Input handles POST /api/v1/sessions/:id/input
func (h *SessionHandler) Input(c *fiber.Ctx) error {
	sess := h.store.Get(c.Params("id"))
	if sess == nil {
		return sessionNotFound(c)
	}

	var req dto.InputRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	sess.SetFreeText(req.Text)

	return c.JSON(h.snapshot(sess, domain.ResolveNone))
}

// Submit handles POST /api/v1/sessions/:id/submit
//
// Submit bypasses the debounce window: any pending dispatch is flushed
// immediately.
func (h *SessionHandler) Submit(c *fiber.Ctx) error {
	sess := h.store.Get(c.Params("id"))
	if sess == nil {
		return sessionNotFound(c)
	}

	sess.SubmitSearch()

	return c.JSON(h.snapshot(sess, domain.ResolveNone))
}

// Mutate handles POST /api/v1/sessions/:id/state
func (h *SessionHandler) Mutate(c *fiber.Ctx) error {
	sess := h.store.Get(c.Params("id"))
	if sess == nil {
		return sessionNotFound(c)
	}

	var req dto.MutateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	signal, err := h.apply(sess, req)
	if err != nil {
		if domain.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: err.Error(),
				Code:  "VALIDATION_ERROR",
			})
		}

		h.logger.Error("mutation failed", zap.String("session_id", sess.ID), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "mutation failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(h.snapshot(sess, signal))
}

// Delete handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	h.store.Delete(c.Params("id"))

	return c.SendStatus(fiber.StatusNoContent)
}

// apply maps the present fields of a MutateRequest onto session mutations.
// Hierarchy mutations come first so a request that both picks a category and
// sets a page lands on page 1 of the new category, not a stale page.
func (h *SessionHandler) apply(sess *browse.Session, req dto.MutateRequest) (domain.ResolveSignal, error) {
	if req.ClearAll {
		sess.ClearAll()
		return domain.ResolveNone, nil
	}

	signal := domain.ResolveNone

	if req.CategoryID != nil {
		signal = sess.SetCategory(*req.CategoryID)
	}
	if req.MainCategoryID != nil {
		if s := sess.SetMainCategory(*req.MainCategoryID); s != domain.ResolveNone {
			signal = s
		}
	}
	if req.SubCategoryID != nil {
		value := ""
		if req.SubCategoryValue != nil {
			value = *req.SubCategoryValue
		}
		sess.SetSubCategoryValue(*req.SubCategoryID, value)
	}
	if req.LocationID != nil {
		sess.SetLocation(*req.LocationID)
	}
	if req.SetPriceRange {
		if err := sess.SetPriceRange(req.MinPrice, req.MaxPrice); err != nil {
			return signal, err
		}
	}
	if req.SetCondition {
		sess.SetCondition(req.Condition)
	}
	if req.SetFeatured {
		sess.SetFeaturedFilter(req.Featured)
	}
	if req.SortField != nil || req.SortDescending != nil {
		current := sess.Snapshot().State
		field := current.SortField
		if req.SortField != nil {
			field = domain.SortField(*req.SortField)
		}
		descending := current.SortDescending
		if req.SortDescending != nil {
			descending = *req.SortDescending
		}
		sess.SetSort(field, descending)
	}
	if req.Page != nil {
		sess.SetPage(*req.Page)
	}

	return signal, nil
}

func (h *SessionHandler) snapshot(sess *browse.Session, signal domain.ResolveSignal) dto.SessionResponse {
	return dto.FromReadModel(sess.ID, sess.Snapshot(), h.siblingCount, signal)
}

func sessionNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: "session not found",
		Code:  "NOT_FOUND",
	})
}
