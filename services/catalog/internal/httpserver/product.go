package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/service"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/transport"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseID(c, l, "id", "get_product_failed")
	if err != nil {
		return err
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err, "cannot get product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *CatalogHTTP) GetProductsBatch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_batch")

	raw := service.SplitList(c.QueryParam("ids"))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			l.Warn("get_batch_failed", "status", 400, "reason", "bad id", "id", s)
			return echo.NewHTTPError(http.StatusBadRequest, "ids must be uuids")
		}
		ids = append(ids, id)
	}

	items, err := h.Svc.GetProductsByIDs(ctx, ids)
	if err != nil {
		return fail(l, "get_batch_failed", err, "cannot get products")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items})
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := pagination.ParseIntDefault(c.QueryParam("page"), 1)
	size := pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize)

	filter := repo.ProductFilter{
		Categories: service.SplitList(c.QueryParam("category")),
		Brands:     service.SplitList(c.QueryParam("brand")),
		SortBy:     c.QueryParam("sortBy"),
	}

	res, err := h.Svc.ListProducts(ctx, filter, page, size)
	if err != nil {
		return fail(l, "get_products_error", err, "cannot list products")
	}

	l.Debug("get_products_success", "total", res.Meta.Total)
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) AdminListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_products")

	page := pagination.ParseIntDefault(c.QueryParam("page"), 1)
	size := pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize)

	res, err := h.Svc.ListProducts(ctx, repo.ProductFilter{SortBy: repo.SortNewest}, page, size)
	if err != nil {
		return fail(l, "admin_list_products_error", err, "cannot list products")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "create_product")

	var req transport.CreateProductRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	prod, err := h.Svc.CreateProduct(ctx, req)
	if err != nil {
		return fail(l, "product_create_error", err, "cannot add product to db")
	}

	l.Info("create_product_success", "product_id", prod.ID)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": prod})
}

func (h *CatalogHTTP) PatchProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "patch_product")

	id, err := parseID(c, l, "id", "product_patch_error")
	if err != nil {
		return err
	}

	var req transport.PatchProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_patch_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod, err := h.Svc.PatchProduct(ctx, id, req)
	if err != nil {
		return fail(l, "product_patch_error", err, "cannot update product")
	}

	l.Info("patch_product_success", "product_id", id)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": prod})
}

func (h *CatalogHTTP) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete_product")

	id, err := parseID(c, l, "id", "product_delete_error")
	if err != nil {
		return err
	}
	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		return fail(l, "product_delete_error", err, "cannot delete product from db")
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Product deleted successfully"})
}

func (h *CatalogHTTP) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "upload_image")

	fh, err := c.FormFile("image")
	if err != nil {
		l.Warn("upload_image_error", "status", 400, "reason", "image field missing", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "image file is required")
	}
	if fh.Size > service.MaxImageSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image larger than 5 MiB")
	}

	f, err := fh.Open()
	if err != nil {
		l.Error("upload_image_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read upload")
	}
	defer f.Close()

	url, err := h.Svc.UploadImage(ctx, f)
	if err != nil {
		return fail(l, "upload_image_error", err, "cannot store image")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "url": url})
}
