package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/repo"
)

func newProductHandler(t *testing.T) (*ProductHandler, *gorm.DB) {
	t.Helper()

	db := initTestDB(t)
	return &ProductHandler{Repo: &repo.Products{DB: db}, Index: "product"}, db
}

func seedProducts(t *testing.T, db *gorm.DB, n int) {
	t.Helper()

	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&models.Product{
			Name:        fmt.Sprintf("product %d", i),
			Description: "test product",
			Price:       float64(i) * 10,
			Count:       uint(i),
		}).Error)
	}
}

func TestProductList_PaginationMeta(t *testing.T) {
	h, db := newProductHandler(t)
	e := echo.New()
	seedProducts(t, db, 15)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?page=2&limit=10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Page       int   `json:"page"`
			Limit      int   `json:"limit"`
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Len(t, resp.Data, 5)
	assert.Equal(t, 2, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.Limit)
	assert.Equal(t, int64(15), resp.Meta.Total)
	assert.Equal(t, int64(2), resp.Meta.TotalPages)
}

func TestProductGet_NotFound(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/99", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := h.Get(c)
	requireAppErr(t, err, http.StatusNotFound)
}

func TestProductCreate_AndGet(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	req := jsonRequest(t, http.MethodPost, "/api/v1/products", map[string]any{
		"name":        "teapot",
		"description": "ceramic teapot",
		"price":       19.90,
		"count":       3,
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.Data.ID)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/products/1", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(resp.Data.ID))

	require.NoError(t, h.Get(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProductCreate_Validation(t *testing.T) {
	h, _ := newProductHandler(t)
	e := echo.New()

	req := jsonRequest(t, http.MethodPost, "/api/v1/products", map[string]any{
		"description": "nameless",
		"price":       5.0,
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Create(c)
	requireAppErr(t, err, http.StatusBadRequest)
}

func TestProductUpdate_ChangesRow(t *testing.T) {
	h, db := newProductHandler(t)
	e := echo.New()
	seedProducts(t, db, 1)

	req := jsonRequest(t, http.MethodPut, "/api/v1/products/1", map[string]any{
		"name":        "renamed",
		"description": "updated",
		"price":       42.0,
		"count":       7,
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Product
	require.NoError(t, db.First(&stored, 1).Error)
	assert.Equal(t, "renamed", stored.Name)
	assert.Equal(t, 42.0, stored.Price)
}

func TestProductDelete_ThenNotFound(t *testing.T) {
	h, db := newProductHandler(t)
	e := echo.New()
	seedProducts(t, db, 1)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/products/1", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := h.Delete(c)
	requireAppErr(t, err, http.StatusNotFound)
}
