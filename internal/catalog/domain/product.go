// 包 商品目录的领域模型
package domain

import (
	"github.com/shopspring/decimal"
)

// Discount 数量阶梯折扣
// 购买数量达到 Quantity 时可享受 Rate（0~1）的单价折扣
type Discount struct {
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
}

// Product 商品
// 只通过整体替换来更新，不在原记录上修改
type Product struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Price     int64      `json:"price"`
	Stock     int        `json:"stock"`
	Discounts []Discount `json:"discounts"`
}

// NewProduct 创建商品，折扣列表总是非 nil
func NewProduct(id, name string, price int64, stock int, discounts ...Discount) Product {
	return Product{
		ID:        id,
		Name:      name,
		Price:     price,
		Stock:     stock,
		Discounts: cloneDiscounts(discounts),
	}
}

// NewDiscount 以浮点折扣率构造阶梯折扣，主要用于种子数据与测试
func NewDiscount(quantity int, rate float64) Discount {
	return Discount{Quantity: quantity, Rate: decimal.NewFromFloat(rate)}
}

// Clone 返回深拷贝，调用方可以放心修改返回值
func (p Product) Clone() Product {
	p.Discounts = cloneDiscounts(p.Discounts)
	return p
}

// Validate 校验商品基础字段
func (p Product) Validate() error {
	if p.ID == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if p.Price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	for _, d := range p.Discounts {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate 校验折扣阈值为正、折扣率位于 [0,1]
func (d Discount) Validate() error {
	if d.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if d.Rate.IsNegative() || d.Rate.GreaterThan(decimal.NewFromInt(1)) {
		return &ValidationError{Field: "rate", Reason: "must be within [0,1]"}
	}
	return nil
}

func cloneDiscounts(in []Discount) []Discount {
	out := make([]Discount, len(in))
	copy(out, in)
	return out
}
