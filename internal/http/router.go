package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bookshelf/internal/auth"
	"bookshelf/internal/database"
	"bookshelf/internal/database/books"
	"bookshelf/internal/database/loans"
)

// RouterConfig carries every dependency the router needs. A single config
// struct keeps NewRouter testable and its parameter list short.
type RouterConfig struct {
	Database       *database.Database
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	BooksRepo      *books.Repository
	LoansRepo      *loans.Repository
	AllowedOrigins []string
	Version        string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthService)
	profileController := NewProfileController(cfg.AuthService)
	booksController := NewBooksController(cfg.BooksRepo)
	exportController := NewExportController(cfg.BooksRepo)
	loansController := NewLoansController(cfg.LoansRepo)

	// Public endpoints
	router.GET("/health", health.Status)
	router.POST("/auth/register", authController.Register)
	router.POST("/auth/login", authController.Login)
	router.POST("/auth/reset-password", authController.ResetPassword)

	// Everything below requires a valid bearer token
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.GET("/auth/me", authController.Me)

	protected.GET("/users/me", profileController.GetProfile)
	protected.PUT("/users/me", profileController.UpdateProfile)

	protected.GET("/books", booksController.List)
	protected.POST("/books", booksController.Create)
	protected.GET("/books/stats/overview", booksController.Stats)
	protected.GET("/books/export/csv", exportController.ExportCSV)
	protected.GET("/books/export/pdf", exportController.ExportPDF)
	protected.GET("/books/:id", booksController.Get)
	protected.PATCH("/books/:id", booksController.Update)
	protected.DELETE("/books/:id", booksController.Delete)

	protected.POST("/loans", loansController.Create)
	protected.GET("/loans", loansController.List)
	protected.GET("/loans/borrowed/me", loansController.ListBorrowed)
	protected.GET("/loans/:id", loansController.Get)
	protected.PATCH("/loans/:id", loansController.Update)
	protected.PATCH("/loans/:id/return", loansController.Return)
	protected.DELETE("/loans/:id", loansController.Delete)

	return router
}
