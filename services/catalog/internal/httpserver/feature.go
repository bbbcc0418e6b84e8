package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/transport"
)

func (h *CatalogHTTP) GetFeatures(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feature.list")

	items, err := h.Svc.ListFeatures(ctx)
	if err != nil {
		return fail(l, "get_features_error", err, "cannot list features")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

func (h *CatalogHTTP) AddFeature(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feature.add")

	var req transport.CreateFeatureRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		return err
	}
	f, err := h.Svc.AddFeature(ctx, req.Image)
	if err != nil {
		return fail(l, "add_feature_error", err, "cannot add feature")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": f})
}

func (h *CatalogHTTP) DeleteFeature(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "feature.delete")

	id, err := parseID(c, l, "id", "delete_feature_error")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteFeature(ctx, id); err != nil {
		return fail(l, "delete_feature_error", err, "cannot delete feature")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
