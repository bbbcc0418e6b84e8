package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/services/search/internal/index"
)

var ErrValidation = errors.New("validation")

const maxQueryLen = 200

type SearchService struct {
	Index index.Index
}

type Result struct {
	Total    int64            `json:"total"`
	Products []index.Document `json:"products"`
	Meta     pagination.Meta  `json:"meta"`
}

func (s *SearchService) Search(ctx context.Context, q string, page, size int) (*Result, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, fmt.Errorf("query required: %w", ErrValidation)
	}
	if len(q) > maxQueryLen {
		return nil, fmt.Errorf("query longer than %d: %w", maxQueryLen, ErrValidation)
	}

	page, size = pagination.Normalize(page, size)
	from, limit := pagination.Calculate(page, size)

	total, docs, err := s.Index.Search(ctx, q, from, limit)
	if err != nil {
		return nil, err
	}
	return &Result{Total: total, Products: docs, Meta: pagination.NewMeta(page, size, total)}, nil
}

type productEvent struct {
	ProductID string          `json:"productID"`
	Product   *index.Document `json:"product"`
}

// HandleProductEvent mirrors catalog writes into the search index.
func (s *SearchService) HandleProductEvent(ctx context.Context, ev events.Event) (err error) {
	l := logging.FromContext(ctx).With("svc", "search.product_events", "type", ev.Type())
	defer func() {
		metrics.EventsConsumed.WithLabelValues(events.TopicProducts, ev.Type(), metrics.Outcome(err)).Inc()
	}()

	var pe productEvent
	if err := ev.Decode(&pe); err != nil {
		return fmt.Errorf("decode %s: %w", ev.Type(), err)
	}
	if pe.ProductID == "" {
		return fmt.Errorf("%s without productID", ev.Type())
	}

	switch ev.Type() {
	case "product_created", "product_updated":
		if pe.Product == nil {
			return fmt.Errorf("%s without product", ev.Type())
		}
		pe.Product.ID = pe.ProductID
		if err := s.Index.Upsert(ctx, *pe.Product); err != nil {
			return err
		}
	case "product_deleted":
		if err := s.Index.Delete(ctx, pe.ProductID); err != nil {
			return err
		}
	default:
		return nil
	}

	l.Debug("index_synced", "product_id", pe.ProductID)
	return nil
}
