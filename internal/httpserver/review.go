package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/avolkov/storefront/internal/logging"
	authmw "github.com/avolkov/storefront/internal/middleware/auth"
	"github.com/avolkov/storefront/internal/mykafka"
	"github.com/avolkov/storefront/internal/service"
	"github.com/avolkov/storefront/internal/transport"
)

type ReviewHTTP struct {
	Svc      *service.ReviewService
	Producer *mykafka.Producer
}

func (h *ReviewHTTP) ListReviews(c echo.Context) error {
	productID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	reviews, err := h.Svc.ListReviews(c.Request().Context(), productID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHTTP) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	var req transport.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	review, err := h.Svc.CreateReview(ctx, userID, req)
	if err != nil {
		l.Warn("create_review_error", "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "review_events", fmt.Sprint(userID), map[string]any{
		"type":      "review_created",
		"userID":    userID,
		"reviewID":  review.ID,
		"productID": review.ProductID,
		"rating":    review.Rating,
	})

	l.Info("create_review_success", "review_id", review.ID)
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHTTP) PatchReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.patch")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	reviewID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req transport.PatchReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	review, err := h.Svc.UpdateReview(ctx, reviewID, userID, req)
	if err != nil {
		l.Warn("patch_review_error", "review_id", reviewID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "review_events", fmt.Sprint(userID), map[string]any{
		"type":      "review_updated",
		"userID":    userID,
		"reviewID":  review.ID,
		"productID": review.ProductID,
		"rating":    review.Rating,
	})

	l.Info("patch_review_success", "review_id", review.ID)
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHTTP) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.delete")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	reviewID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.DeleteReview(ctx, reviewID, userID); err != nil {
		l.Warn("delete_review_error", "review_id", reviewID, "error", err)
		return httpError(err)
	}

	publish(c, h.Producer, "review_events", fmt.Sprint(userID), map[string]any{
		"type":     "review_deleted",
		"userID":   userID,
		"reviewID": reviewID,
	})

	l.Info("delete_review_success", "review_id", reviewID)
	return c.NoContent(http.StatusNoContent)
}

func (h *ReviewHTTP) ToggleHelpful(c echo.Context) error {
	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	reviewID, err := parseID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	marked, total, err := h.Svc.ToggleHelpful(c.Request().Context(), reviewID, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"marked": marked, "helpful_count": total})
}
