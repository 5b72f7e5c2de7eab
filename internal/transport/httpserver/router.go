// Package httpserver provides HTTP server and routing.
package httpserver

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ad-query-service/internal/app/browse"
	"ad-query-service/internal/domain"
	"ad-query-service/internal/transport/httpserver/handler"
	"ad-query-service/internal/transport/httpserver/middleware"
	"ad-query-service/internal/validator"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         int
	BodyLimit    int
	SiblingCount int
}

// Server wraps Fiber app with handlers.
type Server struct {
	App    *fiber.App
	Logger *zap.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	cfg ServerConfig,
	engine *browse.Engine,
	store *browse.SessionStore,
	directory domain.CategoryDirectory,
	redisClient *redis.Client,
	v *validator.Validator,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "ad-query-service",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: errorHandler(logger),
	})

	// Health check middleware MUST be registered BEFORE other middleware
	// for Kubernetes probes to work even during high load
	app.Use(middleware.NewHealthCheck(redisClient))

	// Global middleware
	app.Use(requestid.New())
	app.Use(middleware.Recover(logger))
	app.Use(middleware.Logger(logger))
	app.Use(cors.New())
	app.Use(compress.New())

	// Create handlers
	browseHandler := handler.NewBrowseHandler(engine, cfg.SiblingCount, logger)
	sessionHandler := handler.NewSessionHandler(store, cfg.SiblingCount, v, logger)
	directoryHandler := handler.NewDirectoryHandler(directory, logger)

	// Register routes
	registerRoutes(app, browseHandler, sessionHandler, directoryHandler)

	return &Server{
		App:    app,
		Logger: logger,
	}
}

// registerRoutes sets up all API routes.
func registerRoutes(
	app *fiber.App,
	browseHandler *handler.BrowseHandler,
	sessionHandler *handler.SessionHandler,
	directoryHandler *handler.DirectoryHandler,
) {
	// Health checks are handled by middleware (/livez, /readyz)

	// API v1 routes
	v1 := app.Group("/api/v1")

	// Stateless ad queries
	ads := v1.Group("/ads")
	ads.Get("/", browseHandler.Search)
	ads.Get("/shelves", browseHandler.Shelves)
	ads.Get("/canonical-url", browseHandler.CanonicalURL)

	// Stateful browse sessions
	sessions := v1.Group("/sessions")
	sessions.Post("/", sessionHandler.Create)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Delete("/:id", sessionHandler.Delete)
	sessions.Post("/:id/input", sessionHandler.Input)
	sessions.Post("/:id/submit", sessionHandler.Submit)
	sessions.Post("/:id/state", sessionHandler.Mutate)

	// Taxonomies
	directory := v1.Group("/directory")
	directory.Get("/categories", directoryHandler.Categories)
	directory.Get("/categories/:id/main-categories", directoryHandler.MainCategories)
	directory.Get("/main-categories/:id/sub-categories", directoryHandler.SubCategorySchema)
	directory.Get("/locations", directoryHandler.Locations)
}

// errorHandler returns a custom error handler that logs based on HTTP status code.
// 404s are logged at DEBUG level (expected client behavior), 4xx at WARN, 5xx at ERROR.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		// Log based on status code - 404s are common and not server errors
		switch {
		case code == fiber.StatusNotFound:
			logger.Debug("resource not found",
				zap.String("path", c.Path()),
				zap.String("method", c.Method()),
			)
		case code >= 500:
			logger.Error("server error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		case code >= 400:
			logger.Warn("client error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		default:
			logger.Error("unhandled error",
				zap.Error(err),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
			"code":  "UNHANDLED_ERROR",
		})
	}
}

// Start starts the HTTP server.
func (s *Server) Start(port int) error {
	s.Logger.Info("starting HTTP server", zap.Int("port", port))

	return s.App.Listen(fmt.Sprintf(":%d", port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.Logger.Info("shutting down HTTP server")

	return s.App.Shutdown()
}
