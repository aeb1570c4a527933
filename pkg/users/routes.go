package users

import (
	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all user admin routes. Every route is staff-only.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db)

	h := &handler{
		userService: userService,
	}

	users := e.Group("/users")
	users.Use(authMiddleware.Authenticate)
	users.Use(authMiddleware.RequireStaff)

	users.GET("", h.list)
	users.GET("/:id", h.retrieve)
	users.DELETE("/:id", h.delete)

	return userService
}
