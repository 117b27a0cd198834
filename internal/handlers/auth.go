package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/logging"
	"github.com/Skotchmaster/web_store/internal/middleware/csrf"
	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/mykafka"
	"github.com/Skotchmaster/web_store/internal/service"
)

type AuthHandler struct {
	Svc      *service.AuthService
	Producer *mykafka.Producer
	CSRF     csrf.Config

	// SecureCookies should be true everywhere except local development.
	SecureCookies bool
}

func (h *AuthHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "user_events", fmt.Sprint(event["user_id"]), event); err != nil {
		logging.FromContext(c.Request().Context()).Error("kafka publish error", "error", err)
	}
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	user, err := h.Svc.Register(c.Request().Context(), req.Email, req.Username, req.Password, models.Role(req.Role))
	if err != nil {
		return err
	}

	h.publish(c, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return c.JSON(http.StatusCreated, echo.Map{"id": user.ID})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid body")
	}

	res, err := h.Svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(CreateCookie(RefreshCookieName, res.RefreshToken, "/", res.RefreshExp, h.SecureCookies))

	csrfToken, err := csrf.Issue(c, h.CSRF)
	if err != nil {
		return apperr.Storage(err)
	}

	h.publish(c, map[string]any{
		"type":    "user_logged_in",
		"user_id": res.User.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": res.AccessToken,
		"csrfToken":   csrfToken,
		"user": echo.Map{
			"id":    res.User.ID,
			"email": res.User.Email,
			"role":  res.User.Role,
		},
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	refreshCookie, err := c.Cookie(RefreshCookieName)
	if err != nil || refreshCookie.Value == "" {
		return apperr.Validation("refresh token cookie is missing")
	}

	accessToken, err := h.Svc.Refresh(c.Request().Context(), refreshCookie.Value)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"accessToken": accessToken})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	refreshCookie, err := c.Cookie(RefreshCookieName)
	if err != nil || refreshCookie.Value == "" {
		return apperr.Validation("refresh token cookie is missing")
	}

	if err := h.Svc.Logout(c.Request().Context(), refreshCookie.Value); err != nil {
		return err
	}

	c.SetCookie(DeleteCookie(RefreshCookieName, "/", h.SecureCookies))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
