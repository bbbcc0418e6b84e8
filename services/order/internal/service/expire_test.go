package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

func TestExpireUnpaidOrders(t *testing.T) {
	t.Parallel()
	s, cat, rec := newTestService(t)
	ctx := context.Background()
	buyer := Buyer{UserID: uuid.New(), Email: "ann@example.com"}
	skirt := cat.add("skirt", 2000, 0, 10)

	unpaid := place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{skirt: 1}, "")
	paid := place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{skirt: 1}, "")
	_, err := s.CapturePayment(ctx, buyer.UserID, transport.CaptureRequest{OrderID: paid.ID, PaymentID: "PAY-1"})
	require.NoError(t, err)
	cod := place(t, s, buyer, models.PaymentCOD, map[uuid.UUID]int{skirt: 1}, "")

	s.Now = time.Now
	n, err := s.ExpireUnpaidOrders(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "nothing is older than the timeout yet")

	s.Now = func() time.Time { return time.Now().Add(time.Hour) }
	n, err = s.ExpireUnpaidOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.GetOrder(ctx, unpaid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.OrderStatus)
	assert.Equal(t, models.PaymentPending, got.PaymentStatus)

	last, ok := rec.Last(events.TopicOrders)
	require.True(t, ok)
	assert.Equal(t, "order_cancelled", last.Event["type"])
	assert.Equal(t, unpaid.ID.String(), last.Event["orderID"])
	assert.Equal(t, false, last.Event["wasConfirmed"])

	for _, id := range []uuid.UUID{paid.ID, cod.ID} {
		o, err := s.GetOrder(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, o.OrderStatus)
	}

	n, err = s.ExpireUnpaidOrders(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	s.PaymentTimeout = 2 * time.Hour
	place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{skirt: 1}, "")
	n, err = s.ExpireUnpaidOrders(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "a longer timeout keeps the order open")
}
