package auth

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/repo"
	"github.com/Skotchmaster/web_store/internal/tokens"
)

const (
	CtxUser = "user"
	CtxRole = "role"
)

// Guard verifies the bearer access token and resolves the identity against
// the credential store before any handler runs.
type Guard struct {
	Users     *repo.Users
	JWTSecret []byte
}

func NewGuard(users *repo.Users, secret []byte) *Guard {
	return &Guard{Users: users, JWTSecret: secret}
}

func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c)
		if raw == "" {
			return apperr.Authentication("missing access token")
		}

		claims, err := tokens.ParseAccess(raw, g.JWTSecret)
		if err != nil {
			return apperr.Authentication("invalid or expired token")
		}

		userID, err := claims.UserID()
		if err != nil {
			return apperr.Authentication("invalid or expired token")
		}

		user, err := g.Users.ByID(c.Request().Context(), userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return apperr.Authentication("invalid or expired token")
			}
			return apperr.Storage(err)
		}

		c.Set(CtxUser, user)
		c.Set(CtxRole, user.Role)

		return next(c)
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// UserFromContext returns the identity attached by RequireAuth.
func UserFromContext(c echo.Context) (*models.User, bool) {
	user, ok := c.Get(CtxUser).(*models.User)
	return user, ok
}
