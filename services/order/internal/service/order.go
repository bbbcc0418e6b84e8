package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/pkg/catalogclient"
	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

var (
	ErrValidation  = errors.New("validation")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("dependency unavailable")
)

type ProductLookup interface {
	GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalogclient.Product, error)
}

type OrderService struct {
	Repo    *repo.GormRepo
	Catalog ProductLookup
	Events  events.Publisher
	Now     func() time.Time

	// PaymentTimeout is how long a PayPal order may stay unpaid.
	PaymentTimeout time.Duration
}

// Buyer is the authenticated customer placing or reading orders.
type Buyer struct {
	UserID uuid.UUID
	Email  string
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func orderEvent(eventType string, o *models.Order) map[string]any {
	items := make([]map[string]any, len(o.Items))
	for i, it := range o.Items {
		items[i] = map[string]any{
			"productId": it.ProductID.String(),
			"title":     it.Title,
			"price":     it.Price,
			"quantity":  it.Quantity,
		}
	}
	return map[string]any{
		"type":          eventType,
		"orderID":       o.ID.String(),
		"orderNumber":   o.Number,
		"userID":        o.UserID.String(),
		"email":         o.UserEmail,
		"status":        o.OrderStatus,
		"paymentStatus": o.PaymentStatus,
		"total":         o.Total,
		"items":         items,
	}
}

func (s *OrderService) emit(ctx context.Context, ev map[string]any) {
	key, _ := ev["orderID"].(string)
	events.Emit(ctx, s.Events, events.TopicOrders, key, ev)
}

func mergeItems(in []transport.OrderItemRequest) ([]uuid.UUID, map[uuid.UUID]int, error) {
	if len(in) == 0 {
		return nil, nil, fmt.Errorf("items required: %w", ErrValidation)
	}
	ids := make([]uuid.UUID, 0, len(in))
	qty := make(map[uuid.UUID]int, len(in))
	for _, it := range in {
		if it.ProductID == uuid.Nil {
			return nil, nil, fmt.Errorf("productId required: %w", ErrValidation)
		}
		if it.Quantity < 1 {
			return nil, nil, fmt.Errorf("quantity must be at least 1: %w", ErrValidation)
		}
		if _, seen := qty[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}
	return ids, qty, nil
}

func (s *OrderService) deliveryAddress(ctx context.Context, userID uuid.UUID, req transport.PlaceOrderRequest) (models.AddressSnapshot, error) {
	if req.AddressID != nil {
		a, err := s.Repo.GetAddress(ctx, userID, *req.AddressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.AddressSnapshot{}, fmt.Errorf("address %s: %w", *req.AddressID, ErrNotFound)
			}
			return models.AddressSnapshot{}, err
		}
		return a.Snapshot(), nil
	}
	if req.AddressInfo == nil {
		return models.AddressSnapshot{}, fmt.Errorf("addressInfo required: %w", ErrValidation)
	}
	in, err := normalizeAddress(*req.AddressInfo)
	if err != nil {
		return models.AddressSnapshot{}, err
	}
	return models.AddressSnapshot{Address: in.Address, City: in.City, Pincode: in.Pincode, Phone: in.Phone, Notes: in.Notes}, nil
}

// PlaceOrder prices the order from the catalog, redeems the coupon and
// stores the order. Cash-on-delivery orders are confirmed at once.
func (s *OrderService) PlaceOrder(ctx context.Context, buyer Buyer, req transport.PlaceOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.place", "user_id", buyer.UserID)

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method != models.PaymentPayPal && method != models.PaymentCOD {
		return nil, fmt.Errorf("paymentMethod must be paypal or cod: %w", ErrValidation)
	}

	ids, qty, err := mergeItems(req.Items)
	if err != nil {
		return nil, err
	}

	addr, err := s.deliveryAddress(ctx, buyer.UserID, req)
	if err != nil {
		return nil, err
	}

	products, err := s.Catalog.GetProducts(ctx, ids)
	if err != nil {
		if errors.Is(err, catalogclient.ErrUnavailable) {
			return nil, fmt.Errorf("catalog: %w", ErrUnavailable)
		}
		return nil, err
	}

	order := &models.Order{
		Number:        ulid.Make().String(),
		UserID:        buyer.UserID,
		UserEmail:     buyer.Email,
		AddressInfo:   addr,
		PaymentMethod: method,
		PaymentStatus: models.PaymentPending,
		OrderStatus:   models.StatusPending,
	}

	for _, id := range ids {
		p, ok := products[id]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		if qty[id] > p.TotalStock {
			return nil, fmt.Errorf("only %d of %q left in stock: %w", p.TotalStock, p.Title, ErrConflict)
		}
		order.Items = append(order.Items, models.OrderItem{
			ProductID: id,
			Title:     p.Title,
			Image:     p.Image,
			Price:     p.UnitPrice(),
			Quantity:  qty[id],
		})
		order.Subtotal += p.UnitPrice() * int64(qty[id])
	}

	if code := strings.ToUpper(strings.TrimSpace(req.CouponCode)); code != "" {
		c, err := s.Repo.GetCouponByCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("invalid coupon code: %w", ErrValidation)
			}
			return nil, err
		}
		discount, reason := couponDiscount(c, order.Subtotal, s.now())
		if reason != "" {
			return nil, fmt.Errorf("%s: %w", reason, ErrValidation)
		}
		order.CouponCode = c.Code
		order.Discount = discount
	}

	order.ShippingFee = ShippingFee(order.Subtotal - order.Discount)
	order.Total = order.Subtotal - order.Discount + order.ShippingFee

	if method == models.PaymentCOD {
		order.OrderStatus = models.StatusConfirmed
	}

	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, repo.ErrCouponUnavailable) {
			return nil, fmt.Errorf("coupon usage limit reached: %w", ErrConflict)
		}
		return nil, err
	}

	metrics.OrdersCreated.WithLabelValues(method).Inc()
	l.Info("order_placed", "order_id", order.ID, "number", order.Number, "total", order.Total)

	s.emit(ctx, orderEvent("order_created", order))
	if order.OrderStatus == models.StatusConfirmed {
		s.emit(ctx, orderEvent("order_confirmed", order))
	}
	return order, nil
}

// ListMyOrders returns the buyer's orders, newest first.
func (s *OrderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	orders, err := s.Repo.ListUserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetMyOrder hides orders of other users behind ErrNotFound.
func (s *OrderService) GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return o, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	return o, nil
}
