package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/logger"
	"github.com/mrlokans/bookshelf/internal/security"
	"github.com/mrlokans/bookshelf/web"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("router needs a session manager for flash messages")
	}

	router := gin.New()
	router.Use(logger.RequestID())
	router.Use(logger.Middleware())
	router.Use(logger.Recovery())

	router.Use(security.HeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(security.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before the session so the session context is built on
	// top of the request CSRF hands on.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(security.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	router.Use(cfg.Sessions.LoadAndSave())

	tmpl, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	} else {
		router.StaticFS("/static", http.FS(web.Static()))
	}
	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	booksController := NewBooksController(cfg.Books, cfg.Covers, cfg.Sessions)
	router.GET("/", booksController.Index)
	router.GET("/search", booksController.Search)
	router.GET("/add", booksController.New)
	router.POST("/add", booksController.Create)
	router.GET("/book/:id", booksController.Show)
	router.GET("/edit/:id", booksController.Edit)
	router.POST("/edit/:id", booksController.Update)
	router.POST("/delete/:id", booksController.Delete)

	return router, nil
}
