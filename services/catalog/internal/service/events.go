package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/repo"
)

type orderEvent struct {
	OrderID      uuid.UUID `json:"orderID"`
	UserID       uuid.UUID `json:"userID"`
	WasConfirmed bool      `json:"wasConfirmed"`
	Items        []struct {
		ProductID uuid.UUID `json:"productId"`
		Quantity  int       `json:"quantity"`
	} `json:"items"`
}

// HandleOrderEvent keeps stock and purchase records in step with the order service.
func (s *CatalogService) HandleOrderEvent(ctx context.Context, ev events.Event) (err error) {
	l := logging.FromContext(ctx).With("svc", "catalog.order_events", "type", ev.Type())
	defer func() {
		metrics.EventsConsumed.WithLabelValues(events.TopicOrders, ev.Type(), metrics.Outcome(err)).Inc()
	}()

	switch ev.Type() {
	case "order_confirmed", "order_cancelled":
	default:
		return nil
	}

	var oe orderEvent
	if err := ev.Decode(&oe); err != nil {
		return fmt.Errorf("decode %s: %w", ev.Type(), err)
	}
	if oe.OrderID == uuid.Nil {
		return fmt.Errorf("%s without orderID", ev.Type())
	}

	lines := make([]repo.StockLine, 0, len(oe.Items))
	ids := make([]uuid.UUID, 0, len(oe.Items))
	for _, it := range oe.Items {
		if it.Quantity <= 0 {
			continue
		}
		lines = append(lines, repo.StockLine{ProductID: it.ProductID, Quantity: it.Quantity})
		ids = append(ids, it.ProductID)
	}

	var applied bool
	switch ev.Type() {
	case "order_confirmed":
		applied, err = s.Repo.ApplyConfirmedOrder(ctx, oe.OrderID, oe.UserID, lines)
	case "order_cancelled":
		if !oe.WasConfirmed {
			return nil
		}
		applied, err = s.Repo.ApplyCancelledOrder(ctx, oe.OrderID)
	}
	if err != nil {
		return err
	}
	if !applied {
		l.Info("order_event_duplicate", "order_id", oe.OrderID)
		return nil
	}

	s.invalidate(ctx, ids...)
	l.Info("order_event_applied", "order_id", oe.OrderID, "lines", len(lines))
	return nil
}
