package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/storefront/internal/coupon/domain"
)

func TestCouponRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCouponRepository(domain.Coupon{Name: "5000", Code: "AMOUNT5000", DiscountType: domain.DiscountTypeAmount, DiscountValue: 5000})

	require.NoError(t, repo.Add(ctx, domain.Coupon{Name: "10%", Code: "PERCENT10", DiscountType: domain.DiscountTypePercentage, DiscountValue: 10}))
	assert.ErrorIs(t, repo.Add(ctx, domain.Coupon{Code: "PERCENT10"}), domain.ErrDuplicateCoupon)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "AMOUNT5000", list[0].Code)
	assert.Equal(t, "PERCENT10", list[1].Code)

	list[0].Code = "mutated"
	c, ok, err := repo.GetByCode(ctx, "AMOUNT5000")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 5000, c.DiscountValue)

	_, ok, err = repo.GetByCode(ctx, "NOPE")
	require.NoError(t, err)
	assert.False(t, ok)
}
