package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/pkg/cache"
	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/storage"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/transport"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)

const productCacheTTL = 5 * time.Minute

type CatalogService struct {
	Repo    *repo.GormRepo
	Cache   cache.Cache
	Events  events.Publisher
	Storage storage.Uploader
}

func productKey(id uuid.UUID) string { return "product:" + id.String() }

func (s *CatalogService) productCache() cache.Cache {
	if s.Cache == nil {
		return cache.Noop{}
	}
	return s.Cache
}

func (s *CatalogService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := s.productCache().Delete(ctx, keys...); err != nil {
		logging.FromContext(ctx).Warn("cache_invalidate_error", "keys", keys, "error", err)
	}
}

func (s *CatalogService) emitProduct(ctx context.Context, eventType string, p *models.Product) {
	ev := map[string]any{
		"type":      eventType,
		"productID": p.ID.String(),
	}
	if eventType != "product_deleted" {
		ev["product"] = p
	}
	events.Emit(ctx, s.Events, events.TopicProducts, p.ID.String(), ev)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.get_product")

	var cached models.Product
	hit, err := s.productCache().GetJSON(ctx, productKey(id), &cached)
	if err != nil {
		l.Warn("cache_read_error", "error", err)
	}
	if hit {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return &cached, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	if err := s.productCache().SetJSON(ctx, productKey(id), product, productCacheTTL); err != nil {
		l.Warn("cache_write_error", "error", err)
	}
	return product, nil
}

func (s *CatalogService) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) > pagination.MaxPageSize {
		return nil, fmt.Errorf("at most %d ids: %w", pagination.MaxPageSize, ErrValidation)
	}
	return s.Repo.GetProductsByIDs(ctx, ids)
}

// SplitList parses a comma separated query value, dropping empty entries.
func SplitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *CatalogService) ListProducts(ctx context.Context, f repo.ProductFilter, page, size int) (pagination.Page[models.Product], error) {
	page, size = pagination.Normalize(page, size)
	offset, limit := pagination.Calculate(page, size)

	total, items, err := s.Repo.ListProducts(ctx, f, offset, limit)
	if err != nil {
		return pagination.Page[models.Product]{}, err
	}
	return pagination.Page[models.Product]{Data: items, Meta: pagination.NewMeta(page, size, total)}, nil
}

func validateProduct(p *models.Product) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return fmt.Errorf("title required: %w", ErrValidation)
	case p.Price <= 0:
		return fmt.Errorf("price must be positive: %w", ErrValidation)
	case p.SalePrice < 0 || p.SalePrice >= p.Price:
		return fmt.Errorf("salePrice must be between 0 and price: %w", ErrValidation)
	case p.TotalStock < 0:
		return fmt.Errorf("totalStock cannot be negative: %w", ErrValidation)
	}
	return nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create_product")

	prod := &models.Product{
		Image:       req.Image,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Category:    req.Category,
		Brand:       req.Brand,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		TotalStock:  req.TotalStock,
		Sizes:       pq.StringArray(req.Sizes),
		Colors:      pq.StringArray(req.Colors),
	}
	if err := validateProduct(prod); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateProduct(ctx, prod); err != nil {
		l.Error("create_product_error", "error", err)
		return nil, err
	}

	s.emitProduct(ctx, "product_created", prod)
	return prod, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, id uuid.UUID, req transport.PatchProductRequest) (*models.Product, error) {
	prod, err := s.Repo.UpdateProduct(ctx, id, func(prod *models.Product) ([]string, error) {
		cols := make([]string, 0, 10)
		if req.Image != nil {
			prod.Image = *req.Image
			cols = append(cols, "image")
		}
		if req.Title != nil {
			prod.Title = strings.TrimSpace(*req.Title)
			cols = append(cols, "title")
		}
		if req.Description != nil {
			prod.Description = *req.Description
			cols = append(cols, "description")
		}
		if req.Category != nil {
			prod.Category = *req.Category
			cols = append(cols, "category")
		}
		if req.Brand != nil {
			prod.Brand = *req.Brand
			cols = append(cols, "brand")
		}
		if req.Price != nil {
			prod.Price = *req.Price
			cols = append(cols, "price")
		}
		if req.SalePrice != nil {
			prod.SalePrice = *req.SalePrice
			cols = append(cols, "sale_price")
		}
		if req.TotalStock != nil {
			prod.TotalStock = *req.TotalStock
			cols = append(cols, "total_stock")
		}
		if req.Sizes != nil {
			prod.Sizes = pq.StringArray(*req.Sizes)
			cols = append(cols, "sizes")
		}
		if req.Colors != nil {
			prod.Colors = pq.StringArray(*req.Colors)
			cols = append(cols, "colors")
		}
		if err := validateProduct(prod); err != nil {
			return nil, err
		}
		return cols, nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	s.invalidate(ctx, id)
	s.emitProduct(ctx, "product_updated", prod)
	return prod, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return err
	}

	s.invalidate(ctx, id)
	s.emitProduct(ctx, "product_deleted", &models.Product{ID: id})
	return nil
}
