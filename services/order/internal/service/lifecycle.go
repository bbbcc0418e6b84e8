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
	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

// transition moves o to the next status and settles the payment side:
// paid orders that are cancelled or returned are refunded, and cash on
// delivery is paid once delivered.
func transition(o *models.Order, to string) error {
	if !KnownStatus(to) {
		return fmt.Errorf("unknown order status %q: %w", to, ErrValidation)
	}
	if !CanTransition(o.OrderStatus, to) {
		return fmt.Errorf("cannot move order from %s to %s: %w", o.OrderStatus, to, ErrConflict)
	}

	switch to {
	case models.StatusCancelled, models.StatusRejected, models.StatusReturned:
		if o.PaymentStatus == models.PaymentPaid {
			o.PaymentStatus = models.PaymentRefunded
		}
	case models.StatusDelivered:
		if o.PaymentMethod == models.PaymentCOD && o.PaymentStatus == models.PaymentPending {
			o.PaymentStatus = models.PaymentPaid
		}
	}
	o.OrderStatus = to
	return nil
}

func (s *OrderService) updateOrder(ctx context.Context, orderID uuid.UUID, fn func(o *models.Order) error) (*models.Order, error) {
	o, err := s.Repo.UpdateOrder(ctx, orderID, fn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	return o, nil
}

func owned(o *models.Order, userID uuid.UUID) error {
	if o.UserID != userID {
		return fmt.Errorf("order %s: %w", o.ID, ErrNotFound)
	}
	return nil
}

// CapturePayment records the provider payment of a pending PayPal order and confirms it.
func (s *OrderService) CapturePayment(ctx context.Context, userID uuid.UUID, req transport.CaptureRequest) (*models.Order, error) {
	if strings.TrimSpace(req.PaymentID) == "" {
		return nil, fmt.Errorf("paymentId required: %w", ErrValidation)
	}

	o, err := s.updateOrder(ctx, req.OrderID, func(o *models.Order) error {
		if err := owned(o, userID); err != nil {
			return err
		}
		if o.PaymentStatus == models.PaymentPaid {
			return fmt.Errorf("order already paid: %w", ErrConflict)
		}
		if o.PaymentMethod != models.PaymentPayPal {
			return fmt.Errorf("order is paid on delivery: %w", ErrConflict)
		}
		if err := transition(o, models.StatusConfirmed); err != nil {
			return err
		}
		o.PaymentStatus = models.PaymentPaid
		o.PaymentID = strings.TrimSpace(req.PaymentID)
		o.PayerID = strings.TrimSpace(req.PayerID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("payment_captured", "order_id", o.ID, "payment_id", o.PaymentID)
	s.emit(ctx, orderEvent("order_confirmed", o))
	return o, nil
}

func (s *OrderService) emitCancelled(ctx context.Context, o *models.Order, wasConfirmed bool) {
	ev := orderEvent("order_cancelled", o)
	ev["wasConfirmed"] = wasConfirmed
	s.emit(ctx, ev)
}

func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	var wasConfirmed bool
	o, err := s.updateOrder(ctx, orderID, func(o *models.Order) error {
		if err := owned(o, userID); err != nil {
			return err
		}
		wasConfirmed = o.OrderStatus == models.StatusConfirmed
		return transition(o, models.StatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order_cancelled", "order_id", o.ID, "was_confirmed", wasConfirmed)
	s.emitCancelled(ctx, o, wasConfirmed)
	return o, nil
}

func (s *OrderService) RequestReturn(ctx context.Context, userID, orderID uuid.UUID, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("reason required: %w", ErrValidation)
	}

	o, err := s.updateOrder(ctx, orderID, func(o *models.Order) error {
		if err := owned(o, userID); err != nil {
			return err
		}
		if err := transition(o, models.StatusReturnRequested); err != nil {
			return err
		}
		o.ReturnReason = reason
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := orderEvent("return_requested", o)
	ev["reason"] = reason
	s.emit(ctx, ev)
	return o, nil
}

func (s *OrderService) ListOrders(ctx context.Context, status string, page, size int) (pagination.Page[models.Order], error) {
	if status != "" && !KnownStatus(status) {
		return pagination.Page[models.Order]{}, fmt.Errorf("unknown order status %q: %w", status, ErrValidation)
	}
	page, size = pagination.Normalize(page, size)
	offset, limit := pagination.Calculate(page, size)

	total, items, err := s.Repo.ListOrders(ctx, status, offset, limit)
	if err != nil {
		return pagination.Page[models.Order]{}, err
	}
	return pagination.Page[models.Order]{Data: items, Meta: pagination.NewMeta(page, size, total)}, nil
}

// UpdateStatus is the back-office move along the order state machine.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	status = strings.TrimSpace(status)

	var previous string
	o, err := s.updateOrder(ctx, orderID, func(o *models.Order) error {
		previous = o.OrderStatus
		return transition(o, status)
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order_status_changed", "order_id", o.ID, "from", previous, "to", o.OrderStatus)

	ev := orderEvent("order_status_changed", o)
	ev["previousStatus"] = previous
	s.emit(ctx, ev)

	switch o.OrderStatus {
	case models.StatusConfirmed:
		s.emit(ctx, orderEvent("order_confirmed", o))
	case models.StatusCancelled:
		s.emitCancelled(ctx, o, previous == models.StatusConfirmed)
	}
	return o, nil
}
