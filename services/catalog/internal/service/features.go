package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
)

func (s *CatalogService) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	return s.Repo.ListFeatures(ctx)
}

func (s *CatalogService) AddFeature(ctx context.Context, image string) (*models.Feature, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, fmt.Errorf("image required: %w", ErrValidation)
	}
	f := &models.Feature{Image: image}
	if err := s.Repo.CreateFeature(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *CatalogService) DeleteFeature(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteFeature(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("feature %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
