package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/storefront/internal/coupon/domain"
	"github.com/wyfcoding/storefront/internal/coupon/infrastructure/persistence/memory"
)

type recordingPublisher struct{ topics []string }

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.topics = append(p.topics, topic)
	return nil
}

func TestCreateCoupon(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewCouponApplicationService(memory.NewCouponRepository(), pub)

	c, err := svc.CreateCoupon(ctx, CreateCouponCommand{Name: "10%", Code: "PERCENT10", DiscountType: domain.DiscountTypePercentage, DiscountValue: 10})
	require.NoError(t, err)
	assert.Equal(t, "PERCENT10", c.Code)
	assert.Equal(t, []string{domain.TopicCouponCreated}, pub.topics)

	got, err := svc.GetCoupon(ctx, "PERCENT10")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = svc.CreateCoupon(ctx, CreateCouponCommand{Code: "PERCENT10", DiscountType: domain.DiscountTypeAmount})
	assert.ErrorIs(t, err, domain.ErrDuplicateCoupon)

	_, err = svc.GetCoupon(ctx, "NOPE")
	assert.ErrorIs(t, err, domain.ErrCouponNotFound)
}

func TestCreateCouponValidation(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewCouponApplicationService(memory.NewCouponRepository(), pub)

	_, err := svc.CreateCoupon(ctx, CreateCouponCommand{DiscountType: domain.DiscountTypeAmount})
	assert.ErrorIs(t, err, domain.ErrInvalidCoupon)

	_, err = svc.CreateCoupon(ctx, CreateCouponCommand{Code: "X", DiscountType: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidCouponType)

	list, err := svc.ListCoupons(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, pub.topics)
}

func TestCouponFormDefaults(t *testing.T) {
	cmd, err := CouponForm{Name: "n", Code: "C"}.ToCommand()
	require.NoError(t, err)
	assert.Equal(t, domain.DiscountTypePercentage, cmd.DiscountType)
	assert.Zero(t, cmd.DiscountValue)

	cmd, err = CouponForm{Code: "C", DiscountType: "amount", DiscountValue: "5000"}.ToCommand()
	require.NoError(t, err)
	assert.Equal(t, domain.DiscountTypeAmount, cmd.DiscountType)
	assert.EqualValues(t, 5000, cmd.DiscountValue)

	_, err = CouponForm{Code: "C", DiscountValue: "five"}.ToCommand()
	assert.ErrorIs(t, err, domain.ErrInvalidCoupon)

	_, err = CouponForm{Code: "C", DiscountType: "amount", DiscountValue: 99.9}.ToCommand()
	assert.ErrorIs(t, err, domain.ErrInvalidCoupon)
}
