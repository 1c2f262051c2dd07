// 包 优惠券的领域模型与抵扣策略
package domain

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType 优惠券抵扣方式
type DiscountType string

const (
	DiscountTypeAmount     DiscountType = "amount"     // 固定金额
	DiscountTypePercentage DiscountType = "percentage" // 百分比
)

var (
	// ErrInvalidCouponType 未知的抵扣方式
	ErrInvalidCouponType = errors.New("invalid coupon type")
	// ErrInvalidCoupon 优惠券字段不合法
	ErrInvalidCoupon = errors.New("invalid coupon")
	// ErrCouponNotFound 优惠券不存在
	ErrCouponNotFound = errors.New("coupon not found")
	// ErrDuplicateCoupon 优惠券编码已存在
	ErrDuplicateCoupon = errors.New("coupon code already exists")
)

var hundred = decimal.NewFromInt(100)

// Coupon 优惠券，一个购物车同时只能选择一张
type Coupon struct {
	Name          string       `json:"name"`
	Code          string       `json:"code"`
	DiscountType  DiscountType `json:"discountType"`
	DiscountValue int64        `json:"discountValue"`
}

// NewCoupon 以新建表单的默认值创建优惠券
func NewCoupon() Coupon {
	return Coupon{DiscountType: DiscountTypePercentage}
}

// Valid 判断抵扣方式是否受支持
func (t DiscountType) Valid() bool {
	return t == DiscountTypeAmount || t == DiscountTypePercentage
}

// Validate 校验新建优惠券
func (c Coupon) Validate() error {
	if c.Code == "" {
		return errors.Wrap(ErrInvalidCoupon, "code is required")
	}
	if !c.DiscountType.Valid() {
		return errors.Wrapf(ErrInvalidCouponType, "%q", c.DiscountType)
	}
	if c.DiscountValue < 0 {
		return errors.Wrap(ErrInvalidCoupon, "discount value must not be negative")
	}
	return nil
}

// ApplyOptions 抵扣计算选项
type ApplyOptions struct {
	// FloorAtZero 为 true 时金额券抵扣后的结果不低于 0
	FloorAtZero bool
}

// Apply 计算使用优惠券后的金额
// coupon 为 nil 时原样返回；金额券默认不做下限截断，结果可能为负
func Apply(coupon *Coupon, subtotal decimal.Decimal, opts ApplyOptions) (decimal.Decimal, error) {
	if coupon == nil {
		return subtotal, nil
	}

	value := decimal.NewFromInt(coupon.DiscountValue)
	switch coupon.DiscountType {
	case DiscountTypeAmount:
		total := subtotal.Sub(value)
		if opts.FloorAtZero && total.IsNegative() {
			return decimal.Zero, nil
		}
		return total, nil
	case DiscountTypePercentage:
		return subtotal.Sub(subtotal.Mul(value).Div(hundred)), nil
	default:
		return decimal.Zero, errors.Wrapf(ErrInvalidCouponType, "%q", coupon.DiscountType)
	}
}
