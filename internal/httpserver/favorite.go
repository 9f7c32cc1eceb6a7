package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/avolkov/storefront/internal/middleware/auth"
	"github.com/avolkov/storefront/internal/service"
	"github.com/avolkov/storefront/internal/transport"
)

type FavoriteHTTP struct {
	Svc *service.FavoriteService
}

func (h *FavoriteHTTP) ListFavorites(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	favs, err := h.Svc.ListFavorites(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, favs)
}

func (h *FavoriteHTTP) AddFavorite(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req transport.FavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	fav, err := h.Svc.AddFavorite(c.Request().Context(), userID, req.ProductID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, fav)
}

func (h *FavoriteHTTP) RemoveFavorite(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	productID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.RemoveFavorite(c.Request().Context(), userID, productID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
