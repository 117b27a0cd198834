package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/repo"
	"github.com/Skotchmaster/web_store/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	user := models.User{
		Username:     "u_" + string(role),
		Email:        string(role) + "@x.com",
		PasswordHash: "irrelevant",
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func run(t *testing.T, mw echo.MiddlewareFunc, req *http.Request, setup func(echo.Context)) (error, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	return mw(okHandler)(c), rec
}

func requireAppErr(t *testing.T, err error, code int) {
	t.Helper()

	e, ok := apperr.As(err)
	require.True(t, ok, "expected *apperr.Error, got %v", err)
	require.Equal(t, code, e.Code)
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	db := initTestDB(t)
	guard := NewGuard(&repo.Users{DB: db}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err, _ := run(t, guard.RequireAuth, req, nil)
	requireAppErr(t, err, http.StatusUnauthorized)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	db := initTestDB(t)
	guard := NewGuard(&repo.Users{DB: db}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-jwt")
	err, _ := run(t, guard.RequireAuth, req, nil)
	requireAppErr(t, err, http.StatusUnauthorized)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	db := initTestDB(t)
	user := seedUser(t, db, models.RoleStaff)
	guard := NewGuard(&repo.Users{DB: db}, testSecret)

	raw, _, err := tokens.SignAccess(user.ID, user.Email, string(user.Role), testSecret, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	mwErr, _ := run(t, guard.RequireAuth, req, nil)
	requireAppErr(t, mwErr, http.StatusUnauthorized)
}

func TestRequireAuth_UserGone(t *testing.T) {
	db := initTestDB(t)
	user := seedUser(t, db, models.RoleStaff)
	guard := NewGuard(&repo.Users{DB: db}, testSecret)

	raw, _, err := tokens.SignAccess(user.ID, user.Email, string(user.Role), testSecret, time.Hour)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.User{}, user.ID).Error)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	mwErr, _ := run(t, guard.RequireAuth, req, nil)
	requireAppErr(t, mwErr, http.StatusUnauthorized)
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	db := initTestDB(t)
	user := seedUser(t, db, models.RoleAdmin)
	guard := NewGuard(&repo.Users{DB: db}, testSecret)

	raw, _, err := tokens.SignAccess(user.ID, user.Email, string(user.Role), testSecret, time.Hour)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handlerRan := false
	handler := guard.RequireAuth(func(c echo.Context) error {
		handlerRan = true
		attached, ok := UserFromContext(c)
		require.True(t, ok)
		assert.Equal(t, user.ID, attached.ID)
		assert.Equal(t, models.RoleAdmin, attached.Role)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.True(t, handlerRan)
}

func TestRequireRoles_NoIdentity(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	err, _ := run(t, RequireRoles(models.RoleAdmin), req, nil)
	requireAppErr(t, err, http.StatusUnauthorized)
}

func TestRequireRoles_Gate(t *testing.T) {
	staff := &models.User{ID: 1, Role: models.RoleStaff}
	admin := &models.User{ID: 2, Role: models.RoleAdmin}

	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	err, _ := run(t, RequireRoles(models.RoleAdmin), req, func(c echo.Context) {
		c.Set(CtxUser, staff)
	})
	requireAppErr(t, err, http.StatusForbidden)

	req = httptest.NewRequest(http.MethodDelete, "/", nil)
	err, rec := run(t, RequireRoles(models.RoleAdmin), req, func(c echo.Context) {
		c.Set(CtxUser, admin)
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}
