package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/services/search/internal/index"
)

type memIndex struct {
	mu   sync.Mutex
	docs map[string]index.Document
	from []int
}

func newMemIndex() *memIndex { return &memIndex{docs: map[string]index.Document{}} }

func (m *memIndex) Upsert(_ context.Context, doc index.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	return nil
}

func (m *memIndex) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, id)
	return nil
}

func (m *memIndex) Search(_ context.Context, q string, from, size int) (int64, []index.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.from = append(m.from, from)
	var out []index.Document
	for _, d := range m.docs {
		if strings.Contains(strings.ToLower(d.Title), strings.ToLower(q)) {
			out = append(out, d)
		}
	}
	return int64(len(out)), out, nil
}

func TestSearch_Validation(t *testing.T) {
	t.Parallel()
	s := &SearchService{Index: newMemIndex()}

	_, err := s.Search(context.Background(), "   ", 1, 10)
	require.ErrorIs(t, err, ErrValidation)

	_, err = s.Search(context.Background(), strings.Repeat("a", maxQueryLen+1), 1, 10)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSearch_PassesOffset(t *testing.T) {
	t.Parallel()
	idx := newMemIndex()
	s := &SearchService{Index: idx}

	res, err := s.Search(context.Background(), "dress", 3, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, res.Total)
	assert.Equal(t, []int{20}, idx.from)
	assert.Equal(t, 3, res.Meta.Page)
}

func TestHandleProductEvent_KeepsIndexInSync(t *testing.T) {
	t.Parallel()
	idx := newMemIndex()
	s := &SearchService{Index: idx}
	ctx := context.Background()

	created := events.Event{
		"type":      "product_created",
		"productID": "p1",
		"product":   map[string]any{"title": "Red dress", "brand": "zara", "price": 4999},
	}
	require.NoError(t, s.HandleProductEvent(ctx, created))

	res, err := s.Search(ctx, "red", 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "p1", res.Products[0].ID)
	assert.EqualValues(t, 4999, res.Products[0].Price)

	updated := events.Event{
		"type":      "product_updated",
		"productID": "p1",
		"product":   map[string]any{"title": "Blue dress"},
	}
	require.NoError(t, s.HandleProductEvent(ctx, updated))
	res, err = s.Search(ctx, "red", 1, 10)
	require.NoError(t, err)
	assert.Empty(t, res.Products)

	require.NoError(t, s.HandleProductEvent(ctx, events.Event{"type": "product_deleted", "productID": "p1"}))
	assert.Empty(t, idx.docs)

	require.Error(t, s.HandleProductEvent(ctx, events.Event{"type": "product_created", "productID": "p2"}))
	require.Error(t, s.HandleProductEvent(ctx, events.Event{"type": "product_deleted"}))
	require.NoError(t, s.HandleProductEvent(ctx, events.Event{"type": "something_else", "productID": "p3"}))
}
