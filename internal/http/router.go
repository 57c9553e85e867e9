package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/booktracker/internal/security"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.Use(Recovery(logger))

	// Apply security headers to all responses
	router.Use(security.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(security.StrictTransportSecurityMiddleware())
	}

	if cfg.RateLimitRPS > 0 {
		router.Use(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFKey) > 0 {
		router.Use(security.CSRFMiddleware(cfg.CSRFKey, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	var flash Flasher
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadAndSave())
		flash = cfg.Sessions
	}

	tmpl := template.Must(loadTemplates(cfg.TemplatesPath))
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	router.StaticFS("/static", http.FS(staticFiles()))

	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.BookService, flash, logger)
	apiController := NewBooksAPIController(cfg.BookService, logger)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Books API endpoints
	router.GET("/api/books", apiController.List)
	router.GET("/api/books/:id", apiController.Get)

	// UI routes
	router.GET("/", booksController.Index)
	router.GET("/add", booksController.AddForm)
	router.POST("/add", booksController.Add)
	router.GET("/edit/:id", booksController.EditForm)
	router.POST("/edit/:id", booksController.Edit)
	router.POST("/delete/:id", booksController.Delete)

	router.NoRoute(booksController.notFound)

	return router
}
