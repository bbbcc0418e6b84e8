package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/transport"
)

func orderEventFor(eventType string, orderID, userID uuid.UUID, wasConfirmed bool, lines map[uuid.UUID]int) events.Event {
	items := make([]any, 0, len(lines))
	for id, q := range lines {
		items = append(items, map[string]any{"productId": id.String(), "quantity": q})
	}
	return events.Event{
		"type":         eventType,
		"orderID":      orderID.String(),
		"userID":       userID.String(),
		"wasConfirmed": wasConfirmed,
		"items":        items,
	}
}

func stockOf(t *testing.T, s *CatalogService, id uuid.UUID) int {
	t.Helper()
	p, err := s.Repo.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p.TotalStock
}

func TestHandleOrderEvent_StockAndPurchases(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	dress := mustCreate(t, s, transport.CreateProductRequest{Title: "dress", TotalStock: 5})
	scarf := mustCreate(t, s, transport.CreateProductRequest{Title: "scarf", TotalStock: 1})
	user := uuid.New()
	order := uuid.New()

	confirmed := orderEventFor("order_confirmed", order, user, false, map[uuid.UUID]int{dress.ID: 2, scarf.ID: 3})
	require.NoError(t, s.HandleOrderEvent(ctx, confirmed))
	assert.Equal(t, 3, stockOf(t, s, dress.ID))
	assert.Equal(t, 0, stockOf(t, s, scarf.ID), "stock is clamped at zero")

	// redelivery is a no-op
	require.NoError(t, s.HandleOrderEvent(ctx, confirmed))
	assert.Equal(t, 3, stockOf(t, s, dress.ID))

	bought, err := s.Repo.HasPurchased(ctx, user, dress.ID)
	require.NoError(t, err)
	assert.True(t, bought)

	cancelled := orderEventFor("order_cancelled", order, user, true, map[uuid.UUID]int{dress.ID: 2})
	require.NoError(t, s.HandleOrderEvent(ctx, cancelled))
	require.NoError(t, s.HandleOrderEvent(ctx, cancelled))
	assert.Equal(t, 5, stockOf(t, s, dress.ID))
	assert.Equal(t, 1, stockOf(t, s, scarf.ID), "only the unit that was taken comes back")

	neverConfirmed := orderEventFor("order_cancelled", uuid.New(), user, false, map[uuid.UUID]int{dress.ID: 2})
	require.NoError(t, s.HandleOrderEvent(ctx, neverConfirmed))
	assert.Equal(t, 5, stockOf(t, s, dress.ID))

	require.NoError(t, s.HandleOrderEvent(ctx, events.Event{"type": "order_created"}))
	require.Error(t, s.HandleOrderEvent(ctx, events.Event{"type": "order_confirmed"}))
}

func TestHandleOrderEvent_OversoldOrderRestocksWhatItTook(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	coat := mustCreate(t, s, transport.CreateProductRequest{Title: "coat", TotalStock: 2})
	first, second := uuid.New(), uuid.New()

	require.NoError(t, s.HandleOrderEvent(ctx, orderEventFor("order_confirmed", first, uuid.Nil, false, map[uuid.UUID]int{coat.ID: 5})))
	assert.Equal(t, 0, stockOf(t, s, coat.ID))

	// a second order confirmed against an empty shelf takes nothing
	require.NoError(t, s.HandleOrderEvent(ctx, orderEventFor("order_confirmed", second, uuid.Nil, false, map[uuid.UUID]int{coat.ID: 1})))
	require.NoError(t, s.HandleOrderEvent(ctx, orderEventFor("order_cancelled", second, uuid.Nil, true, map[uuid.UUID]int{coat.ID: 1})))
	assert.Equal(t, 0, stockOf(t, s, coat.ID))

	require.NoError(t, s.HandleOrderEvent(ctx, orderEventFor("order_cancelled", first, uuid.Nil, true, map[uuid.UUID]int{coat.ID: 5})))
	assert.Equal(t, 2, stockOf(t, s, coat.ID))

	var left int64
	require.NoError(t, s.Repo.DB.Model(&models.StockTaken{}).Count(&left).Error)
	assert.Zero(t, left)
}

func TestAddReview_RequiresPurchaseAndUpdatesRating(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	p := mustCreate(t, s, transport.CreateProductRequest{Title: "dress", TotalStock: 10})
	ann, bob := uuid.New(), uuid.New()

	_, err := s.AddReview(ctx, ReviewInput{ProductID: p.ID, UserID: ann, UserName: "ann", Message: "lovely", Value: 5})
	require.ErrorIs(t, err, ErrForbidden)

	for _, u := range []uuid.UUID{ann, bob} {
		ev := orderEventFor("order_confirmed", uuid.New(), u, false, map[uuid.UUID]int{p.ID: 1})
		require.NoError(t, s.HandleOrderEvent(ctx, ev))
	}

	_, err = s.AddReview(ctx, ReviewInput{ProductID: p.ID, UserID: ann, Message: "x", Value: 6})
	require.ErrorIs(t, err, ErrValidation)
	_, err = s.AddReview(ctx, ReviewInput{ProductID: p.ID, UserID: ann, Message: " ", Value: 3})
	require.ErrorIs(t, err, ErrValidation)
	_, err = s.AddReview(ctx, ReviewInput{ProductID: uuid.New(), UserID: ann, Message: "x", Value: 3})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.AddReview(ctx, ReviewInput{ProductID: p.ID, UserID: ann, UserName: "ann", Message: "lovely", Value: 5})
	require.NoError(t, err)
	_, err = s.AddReview(ctx, ReviewInput{ProductID: p.ID, UserID: ann, UserName: "ann", Message: "again", Value: 1})
	require.ErrorIs(t, err, ErrConflict)

	bobs, err := s.AddReview(ctx, ReviewInput{ProductID: p.ID, UserID: bob, UserName: "bob", Message: "ok", Value: 4})
	require.NoError(t, err)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, got.AverageReview, 1e-9)
	assert.Equal(t, 2, got.ReviewCount)

	reviews, err := s.ListReviews(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	require.NoError(t, s.DeleteReview(ctx, bobs.ID))
	require.ErrorIs(t, s.DeleteReview(ctx, bobs.ID), ErrNotFound)

	got, err = s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got.AverageReview, 1e-9)
	assert.Equal(t, 1, got.ReviewCount)

	page, err := s.ListAllReviews(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Meta.Total)
}

func TestFeatures(t *testing.T) {
	t.Parallel()
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.AddFeature(ctx, " ")
	require.ErrorIs(t, err, ErrValidation)

	f, err := s.AddFeature(ctx, "http://cdn.test/banner.jpg")
	require.NoError(t, err)

	items, err := s.ListFeatures(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.ID, items[0].ID)

	require.NoError(t, s.DeleteFeature(ctx, f.ID))
	require.ErrorIs(t, s.DeleteFeature(ctx, f.ID), ErrNotFound)

	var n int64
	require.NoError(t, s.Repo.DB.Model(&models.Feature{}).Count(&n).Error)
	assert.Zero(t, n)
}
