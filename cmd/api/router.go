package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.CORS),
	)

	router.GET("/health", healthCheckHandler(c))

	api := router.Group("/api")
	{
		setupBookRoutes(api, c)
		setupBorrowRoutes(api, c)
	}

	return router
}

func setupBookRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)
	librarian := middleware.LibrarianMiddleware()

	books := api.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/:id", c.BookHandler.GetBook)

		books.POST("", auth, librarian, c.BookHandler.CreateBook)
		books.PUT("/:id", auth, librarian, c.BookHandler.UpdateBook)
		books.DELETE("/:id", auth, librarian, c.BookHandler.DeleteBook)
	}
}

func setupBorrowRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := middleware.AuthMiddleware(c.JWTManager)
	librarian := middleware.LibrarianMiddleware()

	borrow := api.Group("/borrow")
	borrow.Use(auth)
	{
		borrow.POST("", c.BorrowHandler.Borrow)
		borrow.POST("/return", c.BorrowHandler.Return)
		borrow.PATCH("/renew/:borrowId", c.BorrowHandler.Renew)
		borrow.GET("/my-books", c.BorrowHandler.MyBooks)

		borrow.GET("/all", librarian, c.BorrowHandler.ListAll)
		borrow.GET("/overdue", librarian, c.BorrowHandler.Overdue)
		borrow.GET("/stats", librarian, c.BorrowHandler.Stats)
	}
}

// healthCheckHandler reports API, database and cache status.
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		dbStatus := "ok"
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			dbStatus = "unavailable"
		}

		cacheStatus := "ok"
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			cacheStatus = "unavailable"
		}

		status := http.StatusOK
		if dbStatus != "ok" {
			status = http.StatusServiceUnavailable
		}

		ctx.JSON(status, gin.H{
			"success":   dbStatus == "ok",
			"message":   "Library API is running",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"database":  dbStatus,
			"cache":     cacheStatus,
		})
	}
}
