package domain

import (
	"github.com/shopspring/decimal"

	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	coupon "github.com/wyfcoding/storefront/internal/coupon/domain"
)

var one = decimal.NewFromInt(1)

// CartTotals 购物车金额汇总，总是实时计算，不做存储
type CartTotals struct {
	TotalBeforeDiscount decimal.Decimal `json:"totalBeforeDiscount"`
	TotalAfterDiscount  decimal.Decimal `json:"totalAfterDiscount"`
	TotalDiscount       decimal.Decimal `json:"totalDiscount"`
}

// PricingOptions 价格计算选项
type PricingOptions struct {
	// FloorCouponTotal 金额券抵扣后是否截断到 0
	FloorCouponTotal bool
}

// MaxDiscountRate 返回折扣列表中的最大折扣率，空列表为 0
func MaxDiscountRate(discounts []catalog.Discount) decimal.Decimal {
	best := decimal.Zero
	for _, d := range discounts {
		best = decimal.Max(best, d.Rate)
	}
	return best
}

// ApplicableDiscountRate 返回购物车行可享受的折扣率
// 取所有阈值不超过购买数量的阶梯中折扣率最大的一个，与阶梯的定义顺序无关
func ApplicableDiscountRate(item CartItem) decimal.Decimal {
	qualified := make([]catalog.Discount, 0, len(item.Product.Discounts))
	for _, d := range item.Product.Discounts {
		if d.Quantity <= item.Quantity {
			qualified = append(qualified, d)
		}
	}
	return MaxDiscountRate(qualified)
}

// ListTotal 不含任何折扣的行金额
func (i CartItem) ListTotal() decimal.Decimal {
	return decimal.NewFromInt(i.Product.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// LineTotal 应用阶梯折扣后的行金额：price * quantity * (1 - rate)
func LineTotal(item CartItem) decimal.Decimal {
	return item.ListTotal().Mul(one.Sub(ApplicableDiscountRate(item)))
}

// CalculateCartTotal 计算购物车金额汇总
// 折扣前金额按原价累计；折扣后金额为阶梯折扣后的合计再应用优惠券
func CalculateCartTotal(cart Cart, selected *coupon.Coupon, opts PricingOptions) (CartTotals, error) {
	before := decimal.Zero
	discounted := decimal.Zero
	for _, item := range cart {
		before = before.Add(item.ListTotal())
		discounted = discounted.Add(LineTotal(item))
	}

	after, err := coupon.Apply(selected, discounted, coupon.ApplyOptions{FloorAtZero: opts.FloorCouponTotal})
	if err != nil {
		return CartTotals{}, err
	}

	return CartTotals{
		TotalBeforeDiscount: before,
		TotalAfterDiscount:  after,
		TotalDiscount:       before.Sub(after),
	}, nil
}
