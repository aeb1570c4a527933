package books

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers book routes. Reads are public; writes require
// authentication, and the handlers enforce the owner-or-staff rule on top.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	bookService := NewService(db)

	h := &handler{
		bookService: bookService,
	}

	g := e.Group("/book")

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
	g.POST("", h.create, authMiddleware.Authenticate)
	g.PUT("/:id", h.update, authMiddleware.Authenticate)
	g.PATCH("/:id", h.partialUpdate, authMiddleware.Authenticate)
	g.DELETE("/:id", h.delete, authMiddleware.Authenticate)

	return bookService
}
