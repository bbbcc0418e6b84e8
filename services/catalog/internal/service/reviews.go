package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/repo"
)

type ReviewInput struct {
	ProductID uuid.UUID
	UserID    uuid.UUID
	UserName  string
	Message   string
	Value     int
}

func (s *CatalogService) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	return s.Repo.ListReviews(ctx, productID)
}

func (s *CatalogService) AddReview(ctx context.Context, in ReviewInput) (*models.Review, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.add_review", "product_id", in.ProductID, "user_id", in.UserID)

	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, fmt.Errorf("review message required: %w", ErrValidation)
	}
	if in.Value < 1 || in.Value > 5 {
		return nil, fmt.Errorf("review value must be 1..5: %w", ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, in.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", in.ProductID, ErrNotFound)
		}
		return nil, err
	}

	bought, err := s.Repo.HasPurchased(ctx, in.UserID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if !bought {
		l.Warn("add_review_rejected", "reason", "no purchase")
		return nil, fmt.Errorf("no purchase recorded: %w", ErrForbidden)
	}

	rv := &models.Review{
		ProductID: in.ProductID,
		UserID:    in.UserID,
		UserName:  in.UserName,
		Message:   msg,
		Value:     in.Value,
	}
	if err := s.Repo.CreateReview(ctx, rv); err != nil {
		if errors.Is(err, repo.ErrReviewExists) {
			return nil, fmt.Errorf("already reviewed: %w", ErrConflict)
		}
		return nil, err
	}

	s.invalidate(ctx, in.ProductID)
	return rv, nil
}

func (s *CatalogService) ListAllReviews(ctx context.Context, page, size int) (pagination.Page[models.Review], error) {
	page, size = pagination.Normalize(page, size)
	offset, limit := pagination.Calculate(page, size)

	total, items, err := s.Repo.ListAllReviews(ctx, offset, limit)
	if err != nil {
		return pagination.Page[models.Review]{}, err
	}
	return pagination.Page[models.Review]{Data: items, Meta: pagination.NewMeta(page, size, total)}, nil
}

func (s *CatalogService) DeleteReview(ctx context.Context, id uuid.UUID) error {
	productID, err := s.Repo.DeleteReview(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("review %s: %w", id, ErrNotFound)
		}
		return err
	}
	s.invalidate(ctx, productID)
	return nil
}
