package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/pkg/catalogclient"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/transport"
)

var (
	ErrValidation  = errors.New("validation")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("dependency unavailable")
)

type ProductLookup interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalogclient.Product, error)
	GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalogclient.Product, error)
}

type CartService struct {
	Repo    *repo.GormRepo
	Catalog ProductLookup
}

func lookupError(err error, productID uuid.UUID) error {
	switch {
	case errors.Is(err, catalogclient.ErrProductNotFound):
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	case errors.Is(err, catalogclient.ErrUnavailable):
		return fmt.Errorf("catalog: %w", ErrUnavailable)
	}
	return err
}

// GetCart returns the user's cart joined with catalog data. Lines whose
// product no longer exists are dropped from the stored cart.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*transport.CartView, error) {
	l := logging.FromContext(ctx).With("svc", "cart.get", "user_id", userID)

	view := &transport.CartView{UserID: userID, Items: []transport.CartItemView{}}

	cart, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return view, nil
		}
		return nil, err
	}
	view.ID = cart.ID
	if len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]uuid.UUID, len(cart.Items))
	for i, it := range cart.Items {
		ids[i] = it.ProductID
	}
	products, err := s.Catalog.GetProducts(ctx, ids)
	if err != nil {
		return nil, lookupError(err, uuid.Nil)
	}

	var stale []uuid.UUID
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok {
			stale = append(stale, it.ProductID)
			continue
		}
		view.Items = append(view.Items, transport.CartItemView{
			ProductID: it.ProductID,
			Title:     p.Title,
			Image:     p.Image,
			Price:     p.Price,
			SalePrice: p.SalePrice,
			Quantity:  it.Quantity,
		})
	}

	if len(stale) > 0 {
		if _, err := s.Repo.RemoveItems(ctx, userID, stale...); err != nil {
			l.Error("remove_stale_items_error", "error", err)
		} else {
			l.Info("stale_items_removed", "count", len(stale))
		}
	}
	return view, nil
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.CartItem, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("productId required: %w", ErrValidation)
	}
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	p, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, lookupError(err, productID)
	}

	item, err := s.Repo.AddItem(ctx, userID, productID, qty, p.TotalStock)
	if err != nil {
		if errors.Is(err, repo.ErrExceedsStock) {
			return nil, fmt.Errorf("only %d left in stock: %w", p.TotalStock, ErrConflict)
		}
		return nil, err
	}
	return item, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) (*models.CartItem, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("productId required: %w", ErrValidation)
	}
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
	}

	p, err := s.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, lookupError(err, productID)
	}

	item, err := s.Repo.SetItemQuantity(ctx, userID, productID, qty, p.TotalStock)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
		case errors.Is(err, repo.ErrExceedsStock):
			return nil, fmt.Errorf("only %d left in stock: %w", p.TotalStock, ErrConflict)
		}
		return nil, err
	}
	return item, nil
}

func (s *CartService) DecrementItem(ctx context.Context, userID, productID uuid.UUID) (*transport.DecrementResponse, error) {
	deleted, item, err := s.Repo.DecrementItem(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
		}
		return nil, err
	}
	resp := &transport.DecrementResponse{ProductID: productID, Deleted: deleted}
	if !deleted {
		resp.Quantity = item.Quantity
	}
	return resp, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) error {
	n, err := s.Repo.RemoveItems(ctx, userID, productID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.Repo.ClearCart(ctx, userID)
}
