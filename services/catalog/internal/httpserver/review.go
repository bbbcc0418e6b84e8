package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	authmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/service"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/transport"
)

func (h *CatalogHTTP) GetReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.list")

	productID, err := parseID(c, l, "productId", "get_reviews_error")
	if err != nil {
		return err
	}
	items, err := h.Svc.ListReviews(ctx, productID)
	if err != nil {
		return fail(l, "get_reviews_error", err, "cannot list reviews")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

func (h *CatalogHTTP) AddReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.add")

	ident, err := authmw.CurrentIdentity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorised user!")
	}

	var req transport.CreateReviewRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		return err
	}

	rv, err := h.Svc.AddReview(ctx, service.ReviewInput{
		ProductID: req.ProductID,
		UserID:    ident.UserID,
		UserName:  ident.UserName,
		Message:   req.ReviewMessage,
		Value:     req.ReviewValue,
	})
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			l.Warn("add_review_error", "status", 403, "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "You need to purchase product to review it.")
		}
		if errors.Is(err, service.ErrConflict) {
			l.Warn("add_review_error", "status", 409, "error", err)
			return echo.NewHTTPError(http.StatusConflict, "You already reviewed this product!")
		}
		return fail(l, "add_review_error", err, "cannot add review")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": rv})
}

func (h *CatalogHTTP) AdminListReviews(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_reviews")

	page := pagination.ParseIntDefault(c.QueryParam("page"), 1)
	size := pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize)

	res, err := h.Svc.ListAllReviews(ctx, page, size)
	if err != nil {
		return fail(l, "admin_list_reviews_error", err, "cannot list reviews")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) AdminDeleteReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_review")

	id, err := parseID(c, l, "id", "delete_review_error")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteReview(ctx, id); err != nil {
		return fail(l, "delete_review_error", err, "cannot delete review")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
