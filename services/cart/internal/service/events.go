package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
)

// HandleOrderEvent empties the cart once the order built from it is confirmed.
func (s *CartService) HandleOrderEvent(ctx context.Context, ev events.Event) (err error) {
	if ev.Type() != "order_confirmed" {
		return nil
	}
	defer func() {
		metrics.EventsConsumed.WithLabelValues(events.TopicOrders, ev.Type(), metrics.Outcome(err)).Inc()
	}()

	var payload struct {
		UserID uuid.UUID `json:"userID"`
	}
	if err := ev.Decode(&payload); err != nil {
		return fmt.Errorf("decode %s: %w", ev.Type(), err)
	}
	if payload.UserID == uuid.Nil {
		return fmt.Errorf("%s without userID", ev.Type())
	}

	if err := s.ClearCart(ctx, payload.UserID); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("cart_cleared_after_order", "user_id", payload.UserID)
	return nil
}
