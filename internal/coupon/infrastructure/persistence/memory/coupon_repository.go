// Package memory 优惠券的内存存储实现
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/wyfcoding/storefront/internal/coupon/domain"
)

type couponRepository struct {
	mu      sync.RWMutex
	coupons []domain.Coupon
}

// NewCouponRepository 创建优惠券仓储
func NewCouponRepository(seed ...domain.Coupon) domain.CouponRepository {
	return &couponRepository{coupons: slices.Clone(seed)}
}

func (r *couponRepository) List(_ context.Context) ([]domain.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.coupons), nil
}

func (r *couponRepository) GetByCode(_ context.Context, code string) (domain.Coupon, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.coupons {
		if c.Code == code {
			return c, true, nil
		}
	}
	return domain.Coupon{}, false, nil
}

// Add 追加优惠券，编码重复时返回 ErrDuplicateCoupon
func (r *couponRepository) Add(_ context.Context, coupon domain.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.Code == coupon.Code {
			return domain.ErrDuplicateCoupon
		}
	}
	next := make([]domain.Coupon, len(r.coupons), len(r.coupons)+1)
	copy(next, r.coupons)
	r.coupons = append(next, coupon)
	return nil
}
