package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

const MaxAddresses = 3

func normalizeAddress(in transport.AddressInfo) (transport.AddressInfo, error) {
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Notes = strings.TrimSpace(in.Notes)

	switch {
	case in.Address == "":
		return in, fmt.Errorf("address required: %w", ErrValidation)
	case in.City == "":
		return in, fmt.Errorf("city required: %w", ErrValidation)
	case in.Pincode == "":
		return in, fmt.Errorf("pincode required: %w", ErrValidation)
	case in.Phone == "":
		return in, fmt.Errorf("phone required: %w", ErrValidation)
	}
	return in, nil
}

func (s *OrderService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	out, err := s.Repo.ListAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Address{}
	}
	return out, nil
}

func (s *OrderService) AddAddress(ctx context.Context, userID uuid.UUID, in transport.AddressInfo) (*models.Address, error) {
	in, err := normalizeAddress(in)
	if err != nil {
		return nil, err
	}

	a := &models.Address{
		UserID:  userID,
		Address: in.Address,
		City:    in.City,
		Pincode: in.Pincode,
		Phone:   in.Phone,
		Notes:   in.Notes,
	}
	if err := s.Repo.CreateAddress(ctx, a, MaxAddresses); err != nil {
		if errors.Is(err, repo.ErrAddressLimit) {
			return nil, fmt.Errorf("you can add max %d addresses: %w", MaxAddresses, ErrConflict)
		}
		return nil, err
	}
	return a, nil
}

func (s *OrderService) UpdateAddress(ctx context.Context, userID, id uuid.UUID, in transport.AddressInfo) (*models.Address, error) {
	in, err := normalizeAddress(in)
	if err != nil {
		return nil, err
	}

	a := &models.Address{
		ID:      id,
		UserID:  userID,
		Address: in.Address,
		City:    in.City,
		Pincode: in.Pincode,
		Phone:   in.Phone,
		Notes:   in.Notes,
	}
	if err := s.Repo.UpdateAddress(ctx, a); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return s.Repo.GetAddress(ctx, userID, id)
}

func (s *OrderService) DeleteAddress(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.Repo.DeleteAddress(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("address %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}
