package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/repo"
)

const (
	DefaultLowStockThreshold = 5
	lowStockLimit            = 200
)

func (s *CatalogService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.adjust_stock", "product_id", id)

	if delta == 0 {
		return nil, fmt.Errorf("delta must not be zero: %w", ErrValidation)
	}

	prod, err := s.Repo.AdjustStock(ctx, id, delta)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		case errors.Is(err, repo.ErrInsufficientStock):
			return nil, fmt.Errorf("stock cannot go below zero: %w", ErrConflict)
		}
		return nil, err
	}

	l.Info("stock_adjusted", "delta", delta, "stock", prod.TotalStock)
	s.invalidate(ctx, id)
	s.emitProduct(ctx, "product_updated", prod)
	return prod, nil
}

func (s *CatalogService) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("threshold cannot be negative: %w", ErrValidation)
	}
	return s.Repo.LowStock(ctx, threshold, lowStockLimit)
}
