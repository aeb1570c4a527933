package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shelfmark/shelfmark/pkg/errcodes"
	"github.com/shelfmark/shelfmark/pkg/models"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate validates the JWT from the session cookie or the
// Authorization header, verifies the user is still active, and stores the
// user in the request context. Anonymous requests fail with 403.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		token := extractToken(c)
		if token == "" {
			return errcodes.NotAuthenticated()
		}

		claims, err := m.authService.ValidateToken(token)
		if err != nil {
			return errcodes.NotAuthenticated()
		}

		user, err := m.authService.GetUserByID(ctx, claims.UserID)
		if err != nil {
			return errcodes.NotAuthenticated()
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)

		return next(c)
	}
}

// RequireStaff rejects non-staff users. Must be used after Authenticate.
func (m *Middleware) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := c.Get("user").(*models.User)
		if !ok {
			return errcodes.NotAuthenticated()
		}
		if !user.IsStaff {
			return errcodes.PermissionDenied()
		}
		return next(c)
	}
}

func extractToken(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// UserFromContext retrieves the authenticated user from the Echo context.
func UserFromContext(c echo.Context) (*models.User, bool) {
	user, ok := c.Get("user").(*models.User)
	return user, ok
}
