package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/repo"
)

type InventoryHandler struct {
	Repo     *repo.Inventory
	Products *repo.Products
}

func (h *InventoryHandler) List(c echo.Context) error {
	page, offset, limit := pageParams(c)

	items, total, err := h.Repo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return apperr.Storage(err)
	}

	return c.JSON(http.StatusOK, listEnvelope(items, page, limit, total))
}

func (h *InventoryHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	item, err := h.Repo.ByProductID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("inventory record not found")
		}
		return apperr.Storage(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": item})
}

// Put sets the stock level for a product, creating the row if needed.
func (h *InventoryHandler) Put(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req struct {
		Quantity int    `json:"quantity"`
		Location string `json:"location"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if req.Quantity < 0 {
		return apperr.Validation("quantity must not be negative")
	}

	if _, err := h.Products.ByID(c.Request().Context(), id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("product not found")
		}
		return apperr.Storage(err)
	}

	item := models.InventoryItem{
		ProductID: id,
		Quantity:  req.Quantity,
		Location:  req.Location,
	}
	if err := h.Repo.Upsert(c.Request().Context(), &item); err != nil {
		return apperr.Storage(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": item})
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	affected, err := h.Repo.Delete(c.Request().Context(), id)
	if err != nil {
		return apperr.Storage(err)
	}
	if affected == 0 {
		return apperr.NotFound("inventory record not found")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "inventory record deleted"})
}
