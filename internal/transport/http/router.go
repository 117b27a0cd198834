package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/handlers"
	authmw "github.com/Skotchmaster/web_store/internal/middleware/auth"
	"github.com/Skotchmaster/web_store/internal/middleware/csrf"
	"github.com/Skotchmaster/web_store/internal/models"
)

type Deps struct {
	Auth      *handlers.AuthHandler
	Products  *handlers.ProductHandler
	Orders    *handlers.OrderHandler
	Inventory *handlers.InventoryHandler
	Search    *handlers.SearchHandler

	Guard *authmw.Guard
	CSRF  csrf.Config
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.Auth.Register)
	v1.POST("/login", d.Auth.Login)
	v1.POST("/refresh", d.Auth.Refresh)
	v1.POST("/logout", d.Auth.Logout)

	if d.Search != nil {
		v1.GET("/search", d.Search.Search)
	}

	csrfMw := csrf.Middleware(d.CSRF)

	products := v1.Group("/products")
	products.GET("", d.Products.List)
	products.GET("/:id", d.Products.Get)

	adminProducts := products.Group("", d.Guard.RequireAuth, authmw.RequireRoles(models.RoleAdmin), csrfMw)
	adminProducts.POST("", d.Products.Create)
	adminProducts.PUT("/:id", d.Products.Update)
	adminProducts.DELETE("/:id", d.Products.Delete)

	orders := v1.Group("/orders", d.Guard.RequireAuth)
	orders.GET("", d.Orders.List, authmw.RequireRoles(models.RoleAdmin, models.RoleStaff))
	orders.GET("/:id", d.Orders.Get, authmw.RequireRoles(models.RoleAdmin, models.RoleStaff))
	orders.POST("", d.Orders.Create, csrfMw)
	orders.PUT("/:id", d.Orders.UpdateStatus, authmw.RequireRoles(models.RoleAdmin, models.RoleStaff), csrfMw)
	orders.DELETE("/:id", d.Orders.Delete, authmw.RequireRoles(models.RoleAdmin), csrfMw)

	inventory := v1.Group("/inventory", d.Guard.RequireAuth, authmw.RequireRoles(models.RoleAdmin, models.RoleStaff))
	inventory.GET("", d.Inventory.List)
	inventory.GET("/:id", d.Inventory.Get)
	inventory.PUT("/:id", d.Inventory.Put, csrfMw)
	inventory.DELETE("/:id", d.Inventory.Delete, authmw.RequireRoles(models.RoleAdmin), csrfMw)
}
