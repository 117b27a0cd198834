package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/logging"
	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/mykafka"
	"github.com/Skotchmaster/web_store/internal/repo"
	"github.com/Skotchmaster/web_store/internal/service/search"
)

type ProductHandler struct {
	Repo     *repo.Products
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Count       uint    `json:"count"`
}

func (r *productRequest) validate() error {
	if r.Name == "" {
		return apperr.Validation("name is required")
	}
	if r.Price < 0 {
		return apperr.Validation("price must not be negative")
	}
	return nil
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["product_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *ProductHandler) index(c echo.Context, p *models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(c.Request().Context(), h.ES, h.Index, p); err != nil {
		logging.FromContext(c.Request().Context()).Error("es index error", "product_id", p.ID, "error", err)
	}
}

func (h *ProductHandler) deindex(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	if err := search.DeleteProduct(c.Request().Context(), h.ES, h.Index, id); err != nil {
		logging.FromContext(c.Request().Context()).Error("es delete error", "product_id", id, "error", err)
	}
}

func (h *ProductHandler) List(c echo.Context) error {
	page, offset, limit := pageParams(c)

	items, total, err := h.Repo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return apperr.Storage(err)
	}

	return c.JSON(http.StatusOK, listEnvelope(items, page, limit, total))
}

func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	product, err := h.Repo.ByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("product not found")
		}
		return apperr.Storage(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": product})
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Count:       req.Count,
	}
	if err := h.Repo.Create(c.Request().Context(), &product); err != nil {
		return apperr.Storage(err)
	}

	h.index(c, &product)
	h.publish(c, map[string]any{
		"type":       "product_created",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return c.JSON(http.StatusCreated, echo.Map{"data": product})
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	product, err := h.Repo.ByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("product not found")
		}
		return apperr.Storage(err)
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Count = req.Count

	if err := h.Repo.Update(c.Request().Context(), product); err != nil {
		return apperr.Storage(err)
	}

	h.index(c, product)
	h.publish(c, map[string]any{
		"type":       "product_updated",
		"product_id": product.ID,
		"name":       product.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{"data": product})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	affected, err := h.Repo.Delete(c.Request().Context(), id)
	if err != nil {
		return apperr.Storage(err)
	}
	if affected == 0 {
		return apperr.NotFound("product not found")
	}

	h.deindex(c, id)
	h.publish(c, map[string]any{
		"type":       "product_deleted",
		"product_id": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "product deleted"})
}
