package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/logging"
	authmw "github.com/Skotchmaster/web_store/internal/middleware/auth"
	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/mykafka"
	"github.com/Skotchmaster/web_store/internal/repo"
)

type OrderHandler struct {
	Repo     *repo.Orders
	Products *repo.Products
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["order_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *OrderHandler) List(c echo.Context) error {
	page, offset, limit := pageParams(c)

	orders, total, err := h.Repo.List(c.Request().Context(), limit, offset)
	if err != nil {
		return apperr.Storage(err)
	}

	return c.JSON(http.StatusOK, listEnvelope(orders, page, limit, total))
}

func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	order, err := h.Repo.ByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("order not found")
		}
		return apperr.Storage(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"data": order})
}

func (h *OrderHandler) Create(c echo.Context) error {
	user, ok := authmw.UserFromContext(c)
	if !ok {
		return apperr.Authentication("authentication required")
	}

	var req struct {
		Items []struct {
			ProductID uint `json:"product_id"`
			Quantity  uint `json:"quantity"`
		} `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if len(req.Items) == 0 {
		return apperr.Validation("order must contain at least one item")
	}

	order := models.Order{UserID: user.ID, Status: "created"}
	for _, it := range req.Items {
		if it.Quantity == 0 {
			return apperr.Validation("item quantity must be positive")
		}
		product, err := h.Products.ByID(c.Request().Context(), it.ProductID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return apperr.NotFound("product not found")
			}
			return apperr.Storage(err)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  it.Quantity,
			Price:     product.Price,
		})
		order.Total += product.Price * float64(it.Quantity)
	}

	if err := h.Repo.Create(c.Request().Context(), &order); err != nil {
		return apperr.Storage(err)
	}

	h.publish(c, map[string]any{
		"type":     "order_created",
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.Total,
	})

	return c.JSON(http.StatusCreated, echo.Map{"data": order})
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}
	if req.Status == "" {
		return apperr.Validation("status is required")
	}

	affected, err := h.Repo.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return apperr.Storage(err)
	}
	if affected == 0 {
		return apperr.NotFound("order not found")
	}

	h.publish(c, map[string]any{
		"type":     "order_status_changed",
		"order_id": id,
		"status":   req.Status,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "order updated"})
}

func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	affected, err := h.Repo.Delete(c.Request().Context(), id)
	if err != nil {
		return apperr.Storage(err)
	}
	if affected == 0 {
		return apperr.NotFound("order not found")
	}

	h.publish(c, map[string]any{
		"type":     "order_deleted",
		"order_id": id,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "order deleted"})
}
