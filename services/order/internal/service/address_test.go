package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

func TestAddresses(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestService(t)
	ctx := context.Background()
	user := uuid.New()

	_, err := s.AddAddress(ctx, user, transport.AddressInfo{Address: "x", City: "y", Pincode: " ", Phone: "1"})
	require.ErrorIs(t, err, ErrValidation)

	var first *models.Address
	for i := 0; i < MaxAddresses; i++ {
		a, err := s.AddAddress(ctx, user, *testAddress())
		require.NoError(t, err)
		if first == nil {
			first = a
		}
	}
	_, err = s.AddAddress(ctx, user, *testAddress())
	require.ErrorIs(t, err, ErrConflict)

	other, err := s.AddAddress(ctx, uuid.New(), *testAddress())
	require.NoError(t, err, "the limit is per user")

	updated, err := s.UpdateAddress(ctx, user, first.ID, transport.AddressInfo{Address: "9 Elm", City: "Omsk", Pincode: "644000", Phone: "5", Notes: "ring twice"})
	require.NoError(t, err)
	assert.Equal(t, "Omsk", updated.City)
	assert.Equal(t, "ring twice", updated.Notes)

	_, err = s.UpdateAddress(ctx, user, other.ID, *testAddress())
	require.ErrorIs(t, err, ErrNotFound, "not the owner")
	require.ErrorIs(t, s.DeleteAddress(ctx, user, other.ID), ErrNotFound)

	require.NoError(t, s.DeleteAddress(ctx, user, first.ID))
	list, err := s.ListAddresses(ctx, user)
	require.NoError(t, err)
	assert.Len(t, list, MaxAddresses-1)
}

func TestCoupons(t *testing.T) {
	t.Parallel()
	s, _, _ := newTestService(t)
	ctx := context.Background()
	past := fixedNow.Add(-time.Hour)

	tests := []struct {
		name string
		req  transport.CreateCouponRequest
	}{
		{"short code", transport.CreateCouponRequest{Code: "AB", Type: "fixed", Value: 100}},
		{"bad type", transport.CreateCouponRequest{Code: "FREE", Type: "free_shipping", Value: 1}},
		{"percent over 100", transport.CreateCouponRequest{Code: "HALF", Type: "percentage", Value: 101}},
		{"already expired", transport.CreateCouponRequest{Code: "OLD1", Type: "fixed", Value: 100, ExpiresAt: &past}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateCoupon(ctx, tt.req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	fixed, err := s.CreateCoupon(ctx, transport.CreateCouponRequest{Code: "minus15", Type: "fixed", Value: 1500, MinAmount: 3000})
	require.NoError(t, err)
	assert.Equal(t, "MINUS15", fixed.Code)
	assert.True(t, fixed.Active)

	_, err = s.CreateCoupon(ctx, transport.CreateCouponRequest{Code: "MINUS15", Type: "fixed", Value: 100})
	require.ErrorIs(t, err, ErrConflict)

	v, err := s.ValidateCoupon(ctx, "minus15", 2000)
	require.NoError(t, err)
	assert.False(t, v.Valid, "below minimum")

	v, err = s.ValidateCoupon(ctx, "MINUS15", 4000)
	require.NoError(t, err)
	assert.True(t, v.Valid)
	assert.Equal(t, int64(1500), v.Discount)

	v, err = s.ValidateCoupon(ctx, "NOPE", 4000)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "invalid coupon code", v.Message)

	soon := fixedNow.Add(time.Minute)
	_, err = s.CreateCoupon(ctx, transport.CreateCouponRequest{Code: "FLASH", Type: "percentage", Value: 50, ExpiresAt: &soon})
	require.NoError(t, err)
	s.Now = func() time.Time { return soon.Add(time.Second) }
	v, err = s.ValidateCoupon(ctx, "FLASH", 1000)
	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "coupon has expired", v.Message)

	list, err := s.ListCoupons(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, s.DeleteCoupon(ctx, fixed.ID))
	require.ErrorIs(t, s.DeleteCoupon(ctx, fixed.ID), ErrNotFound)
}

func TestCouponDiscountNeverExceedsSubtotal(t *testing.T) {
	t.Parallel()
	c := &models.Coupon{Type: models.CouponFixed, Value: 5000, Active: true}
	d, reason := couponDiscount(c, 1200, fixedNow)
	assert.Empty(t, reason)
	assert.Equal(t, int64(1200), d)

	c = &models.Coupon{Type: models.CouponPercentage, Value: 15, Active: true}
	d, _ = couponDiscount(c, 999, fixedNow)
	assert.Equal(t, int64(149), d)

	c.Active = false
	_, reason = couponDiscount(c, 999, fixedNow)
	assert.Equal(t, "coupon is not active", reason)
}
