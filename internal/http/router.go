package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Yu1chiro/elib-smantiara/internal/audit"
	"github.com/Yu1chiro/elib-smantiara/internal/auth"
	"github.com/Yu1chiro/elib-smantiara/internal/database"
)

// RouterConfig carries every dependency the router needs. Keeping them in one
// struct keeps NewRouter testable without threading long parameter lists.
type RouterConfig struct {
	BookStore      BookStore
	Database       *database.Database
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuditService   *audit.Service
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// Session middleware must run before anything touching session state
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)

	booksController := NewBooksController(cfg.BookStore, cfg.AuditService)

	// Public read endpoint, no auth
	router.GET("/api/public/books", booksController.GetPublicBooks)

	// Auth routes and the protected catalog surface
	if cfg.AuthService != nil && cfg.SessionManager != nil {
		authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.AuditService)
		authController.RegisterRoutes(router)

		protected := router.Group("/api", auth.RequireAuth(cfg.SessionManager))
		protected.GET("/books", booksController.ListBooks)
		protected.POST("/books", booksController.CreateBook)
		protected.PUT("/books/:id", booksController.UpdateBook)
		protected.DELETE("/books/:id", booksController.DeleteBook)
	}

	return router
}
