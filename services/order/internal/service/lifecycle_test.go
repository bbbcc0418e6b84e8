package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fashion_shop/pkg/events"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

func TestStateMachine(t *testing.T) {
	t.Parallel()
	allowed := map[[2]string]bool{
		{models.StatusPending, models.StatusConfirmed}:         true,
		{models.StatusPending, models.StatusRejected}:          true,
		{models.StatusPending, models.StatusCancelled}:         true,
		{models.StatusConfirmed, models.StatusInProcess}:       true,
		{models.StatusConfirmed, models.StatusCancelled}:       true,
		{models.StatusInProcess, models.StatusInShipping}:      true,
		{models.StatusInShipping, models.StatusDelivered}:      true,
		{models.StatusDelivered, models.StatusReturnRequested}: true,
		{models.StatusReturnRequested, models.StatusReturned}:  true,
		{models.StatusReturnRequested, models.StatusDelivered}: true,
	}
	all := []string{
		models.StatusPending, models.StatusConfirmed, models.StatusRejected, models.StatusCancelled,
		models.StatusInProcess, models.StatusInShipping, models.StatusDelivered,
		models.StatusReturnRequested, models.StatusReturned,
	}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]string{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	for _, s := range []string{models.StatusRejected, models.StatusCancelled, models.StatusReturned} {
		assert.True(t, IsTerminal(s), s)
	}
	assert.False(t, KnownStatus("shipped"))
}

func TestCapturePayment(t *testing.T) {
	t.Parallel()
	s, cat, rec := newTestService(t)
	ctx := context.Background()
	buyer := Buyer{UserID: uuid.New(), Email: "ann@example.com"}
	dress := cat.add("dress", 3000, 0, 5)
	o := place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{dress: 1}, "")

	_, err := s.CapturePayment(ctx, uuid.New(), transport.CaptureRequest{OrderID: o.ID, PaymentID: "PAY-1"})
	require.ErrorIs(t, err, ErrNotFound, "only the owner can pay")

	paid, err := s.CapturePayment(ctx, buyer.UserID, transport.CaptureRequest{OrderID: o.ID, PaymentID: "PAY-1", PayerID: "P-9"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, models.StatusConfirmed, paid.OrderStatus)
	assert.Equal(t, "PAY-1", paid.PaymentID)
	assert.Len(t, paid.Items, 1)

	last, ok := rec.Last(events.TopicOrders)
	require.True(t, ok)
	assert.Equal(t, "order_confirmed", last.Event["type"])
	assert.Equal(t, buyer.UserID.String(), last.Event["userID"])
	items, _ := last.Event["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, dress.String(), items[0].(map[string]any)["productId"])

	_, err = s.CapturePayment(ctx, buyer.UserID, transport.CaptureRequest{OrderID: o.ID, PaymentID: "PAY-2"})
	require.ErrorIs(t, err, ErrConflict, "already paid")

	_, err = s.CapturePayment(ctx, buyer.UserID, transport.CaptureRequest{OrderID: uuid.New(), PaymentID: "PAY-3"})
	require.ErrorIs(t, err, ErrNotFound)

	cod := place(t, s, buyer, models.PaymentCOD, map[uuid.UUID]int{dress: 1}, "")
	_, err = s.CapturePayment(ctx, buyer.UserID, transport.CaptureRequest{OrderID: cod.ID, PaymentID: "PAY-4"})
	require.ErrorIs(t, err, ErrConflict)
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()
	s, cat, rec := newTestService(t)
	ctx := context.Background()
	buyer := Buyer{UserID: uuid.New()}
	belt := cat.add("belt", 1500, 0, 10)

	pending := place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{belt: 1}, "")
	cancelled, err := s.CancelOrder(ctx, buyer.UserID, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.OrderStatus)
	last, _ := rec.Last(events.TopicOrders)
	assert.Equal(t, "order_cancelled", last.Event["type"])
	assert.Equal(t, false, last.Event["wasConfirmed"])

	_, err = s.CancelOrder(ctx, buyer.UserID, pending.ID)
	require.ErrorIs(t, err, ErrConflict, "cancelled is terminal")

	paid := place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{belt: 1}, "")
	_, err = s.CapturePayment(ctx, buyer.UserID, transport.CaptureRequest{OrderID: paid.ID, PaymentID: "PAY"})
	require.NoError(t, err)

	_, err = s.CancelOrder(ctx, uuid.New(), paid.ID)
	require.ErrorIs(t, err, ErrNotFound)

	refunded, err := s.CancelOrder(ctx, buyer.UserID, paid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, refunded.PaymentStatus)
	last, _ = rec.Last(events.TopicOrders)
	assert.Equal(t, true, last.Event["wasConfirmed"])
	assert.Equal(t, models.PaymentRefunded, last.Event["paymentStatus"])

	cod := place(t, s, buyer, models.PaymentCOD, map[uuid.UUID]int{belt: 1}, "")
	_, err = s.CancelOrder(ctx, buyer.UserID, cod.ID)
	require.NoError(t, err)
	last, _ = rec.Last(events.TopicOrders)
	assert.Equal(t, true, last.Event["wasConfirmed"])
	assert.Equal(t, models.PaymentPending, last.Event["paymentStatus"], "nothing was paid, nothing to refund")

	shipped := place(t, s, buyer, models.PaymentCOD, map[uuid.UUID]int{belt: 1}, "")
	_, err = s.UpdateStatus(ctx, shipped.ID, models.StatusInProcess)
	require.NoError(t, err)
	_, err = s.CancelOrder(ctx, buyer.UserID, shipped.ID)
	require.ErrorIs(t, err, ErrConflict, "too late once in process")
}

func TestFulfilmentAndReturn(t *testing.T) {
	t.Parallel()
	s, cat, rec := newTestService(t)
	ctx := context.Background()
	buyer := Buyer{UserID: uuid.New()}
	coat := cat.add("coat", 8000, 0, 10)
	o := place(t, s, buyer, models.PaymentCOD, map[uuid.UUID]int{coat: 1}, "")

	_, err := s.RequestReturn(ctx, buyer.UserID, o.ID, "too small")
	require.ErrorIs(t, err, ErrConflict, "not delivered yet")

	_, err = s.UpdateStatus(ctx, o.ID, models.StatusDelivered)
	require.ErrorIs(t, err, ErrConflict, "cannot skip states")

	_, err = s.UpdateStatus(ctx, o.ID, "lost")
	require.ErrorIs(t, err, ErrValidation)

	for _, st := range []string{models.StatusInProcess, models.StatusInShipping, models.StatusDelivered} {
		_, err := s.UpdateStatus(ctx, o.ID, st)
		require.NoError(t, err, st)
	}

	delivered, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, delivered.PaymentStatus, "cash collected on delivery")

	_, err = s.RequestReturn(ctx, buyer.UserID, o.ID, "  ")
	require.ErrorIs(t, err, ErrValidation)

	ret, err := s.RequestReturn(ctx, buyer.UserID, o.ID, "too small")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReturnRequested, ret.OrderStatus)
	assert.Equal(t, "too small", ret.ReturnReason)
	last, _ := rec.Last(events.TopicOrders)
	assert.Equal(t, "return_requested", last.Event["type"])

	returned, err := s.UpdateStatus(ctx, o.ID, models.StatusReturned)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, returned.PaymentStatus)
	last, _ = rec.Last(events.TopicOrders)
	assert.Equal(t, "order_status_changed", last.Event["type"])
	assert.Equal(t, models.StatusReturnRequested, last.Event["previousStatus"])
}

func TestUpdateStatus_AdminConfirmAndCancelEmit(t *testing.T) {
	t.Parallel()
	s, cat, rec := newTestService(t)
	ctx := context.Background()
	bag := cat.add("bag", 4000, 0, 10)
	o := place(t, s, Buyer{UserID: uuid.New()}, models.PaymentPayPal, map[uuid.UUID]int{bag: 1}, "")

	_, err := s.UpdateStatus(ctx, o.ID, models.StatusConfirmed)
	require.NoError(t, err)
	_, err = s.UpdateStatus(ctx, o.ID, models.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"order_created",
		"order_status_changed", "order_confirmed",
		"order_status_changed", "order_cancelled",
	}, rec.Types(events.TopicOrders))
	last, _ := rec.Last(events.TopicOrders)
	assert.Equal(t, true, last.Event["wasConfirmed"])

	_, err = s.UpdateStatus(ctx, uuid.New(), models.StatusConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListOrders_FilterAndPaginate(t *testing.T) {
	t.Parallel()
	s, cat, _ := newTestService(t)
	ctx := context.Background()
	top := cat.add("top", 1000, 0, 100)
	buyer := Buyer{UserID: uuid.New()}

	for i := 0; i < 3; i++ {
		place(t, s, buyer, models.PaymentCOD, map[uuid.UUID]int{top: 1}, "")
	}
	place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{top: 1}, "")

	page, err := s.ListOrders(ctx, models.StatusConfirmed, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Meta.Total)
	assert.True(t, page.Meta.HasNext)

	page, err = s.ListOrders(ctx, "", 2, 3)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)

	_, err = s.ListOrders(ctx, "unknown", 1, 10)
	require.ErrorIs(t, err, ErrValidation)
}

func TestSalesReport(t *testing.T) {
	t.Parallel()
	s, cat, _ := newTestService(t)
	ctx := context.Background()
	buyer := Buyer{UserID: uuid.New()}
	dress := cat.add("dress", 6000, 0, 100)
	scarf := cat.add("scarf", 1000, 0, 100)

	empty, err := s.SalesReport(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalOrders)
	assert.Zero(t, empty.AverageOrderValue)
	assert.Empty(t, empty.TopProducts)

	a := place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{dress: 2}, "")
	_, err = s.CapturePayment(ctx, buyer.UserID, transport.CaptureRequest{OrderID: a.ID, PaymentID: "A"})
	require.NoError(t, err)
	b := place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{scarf: 3}, "")
	_, err = s.CapturePayment(ctx, buyer.UserID, transport.CaptureRequest{OrderID: b.ID, PaymentID: "B"})
	require.NoError(t, err)
	c := place(t, s, buyer, models.PaymentPayPal, map[uuid.UUID]int{scarf: 50}, "")
	_, err = s.CancelOrder(ctx, buyer.UserID, c.ID)
	require.NoError(t, err)

	r, err := s.SalesReport(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.TotalOrders)
	assert.Equal(t, int64(2), r.PaidOrders)
	assert.Equal(t, a.Total+b.Total, r.Revenue)
	assert.Equal(t, (a.Total+b.Total)/2, r.AverageOrderValue)

	counts := map[string]int64{}
	for _, sc := range r.ByStatus {
		counts[sc.Status] = sc.Count
	}
	assert.Equal(t, map[string]int64{models.StatusConfirmed: 2, models.StatusCancelled: 1}, counts)

	require.Len(t, r.TopProducts, 2)
	assert.Equal(t, scarf, r.TopProducts[0].ProductID, "cancelled orders do not count")
	assert.Equal(t, int64(3), r.TopProducts[0].Quantity)
	assert.Equal(t, dress, r.TopProducts[1].ProductID)
}
