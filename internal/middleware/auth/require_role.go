package auth

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/models"
)

// RequireRoles is a pure set-membership predicate over the identity that
// RequireAuth attached. A missing identity means the guard never ran, which
// is a 401, not a 403.
func RequireRoles(allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := UserFromContext(c)
			if !ok {
				return apperr.Authentication("authentication required")
			}
			if !slices.Contains(allowed, user.Role) {
				return apperr.Authorization("you don't have enough rights")
			}
			return next(c)
		}
	}
}
