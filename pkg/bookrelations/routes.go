package bookrelations

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the relation routes. The only exposed operation
// is the upsert-by-book-id PATCH.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	relationService := NewService(db)

	h := &handler{
		relationService: relationService,
	}

	g := e.Group("/book_relation")
	g.Use(authMiddleware.Authenticate)

	g.PATCH("/:bookId", h.partialUpdate)

	return relationService
}
