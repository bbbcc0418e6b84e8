package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
)

const (
	DefaultPaymentTimeout = 30 * time.Minute
	expireBatch           = 100
)

// ExpireUnpaidOrders cancels PayPal orders whose payment was never captured
// within PaymentTimeout. It returns how many orders were cancelled.
func (s *OrderService) ExpireUnpaidOrders(ctx context.Context) (int, error) {
	l := logging.FromContext(ctx).With("svc", "order.expire_unpaid")

	timeout := s.PaymentTimeout
	if timeout <= 0 {
		timeout = DefaultPaymentTimeout
	}

	ids, err := s.Repo.ListUnpaidBefore(ctx, s.now().UTC().Add(-timeout), expireBatch)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, id := range ids {
		o, err := s.updateOrder(ctx, id, func(o *models.Order) error {
			// captured or cancelled since it was listed
			if o.OrderStatus != models.StatusPending || o.PaymentStatus != models.PaymentPending {
				return fmt.Errorf("order %s no longer awaits payment: %w", o.ID, ErrConflict)
			}
			return transition(o, models.StatusCancelled)
		})
		if err != nil {
			if errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
				continue
			}
			l.Error("expire_order_failed", "order_id", id, "error", err)
			continue
		}
		expired++
		s.emitCancelled(ctx, o, false)
	}

	if expired > 0 {
		l.Info("unpaid_orders_expired", "count", expired, "timeout", timeout.String())
	}
	return expired, nil
}
