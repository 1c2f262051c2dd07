package application

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// ProductForm 管理端商品表单，字段保留原始 JSON 值（数字或数字字符串）
type ProductForm struct {
	ID        any            `json:"id"`
	Name      any            `json:"name"`
	Price     any            `json:"price"`
	Stock     any            `json:"stock"`
	Discounts []DiscountForm `json:"discounts"`
}

// DiscountForm 管理端阶梯折扣表单
type DiscountForm struct {
	Quantity any `json:"quantity"`
	Rate     any `json:"rate"`
}

// ToCreateCommand 把表单转换为创建命令，缺失字段取默认值（空名称、价格与库存为 0）
func (f ProductForm) ToCreateCommand() (CreateProductCommand, error) {
	price, stock, err := f.numbers()
	if err != nil {
		return CreateProductCommand{}, err
	}

	discounts := make([]domain.Discount, 0, len(f.Discounts))
	for _, df := range f.Discounts {
		d, err := df.ToDiscount()
		if err != nil {
			return CreateProductCommand{}, err
		}
		discounts = append(discounts, d)
	}

	return CreateProductCommand{
		ID:        cast.ToString(f.ID),
		Name:      cast.ToString(f.Name),
		Price:     price,
		Stock:     stock,
		Discounts: discounts,
	}, nil
}

// ToUpdateCommand 把表单转换为更新命令，ID 取自路径
func (f ProductForm) ToUpdateCommand(id string) (UpdateProductCommand, error) {
	price, stock, err := f.numbers()
	if err != nil {
		return UpdateProductCommand{}, err
	}
	return UpdateProductCommand{
		ID:    id,
		Name:  cast.ToString(f.Name),
		Price: price,
		Stock: stock,
	}, nil
}

func (f ProductForm) numbers() (int64, int, error) {
	price, err := toInt64(f.Price)
	if err != nil {
		return 0, 0, &domain.ValidationError{Field: "price", Reason: "must be a whole number"}
	}
	stock, err := toInt64(f.Stock)
	if err != nil {
		return 0, 0, &domain.ValidationError{Field: "stock", Reason: "must be a whole number"}
	}
	return price, int(stock), nil
}

// ToDiscount 把表单转换为阶梯折扣
func (f DiscountForm) ToDiscount() (domain.Discount, error) {
	q, err := toInt64(f.Quantity)
	if err != nil {
		return domain.Discount{}, &domain.ValidationError{Field: "quantity", Reason: "must be a whole number"}
	}
	rate, err := toDecimal(f.Rate)
	if err != nil {
		return domain.Discount{}, &domain.ValidationError{Field: "rate", Reason: "must be a number"}
	}
	return domain.Discount{Quantity: int(q), Rate: rate}, nil
}

// ToCommand 把表单转换为追加折扣命令
func (f DiscountForm) ToCommand(productID string) (AddDiscountCommand, error) {
	d, err := f.ToDiscount()
	if err != nil {
		return AddDiscountCommand{}, err
	}
	return AddDiscountCommand{ProductID: productID, Quantity: d.Quantity, Rate: d.Rate}, nil
}

// toInt64 空值视为 0，带小数部分的值报错
func toInt64(v any) (int64, error) {
	if v == nil || v == "" {
		return 0, nil
	}
	return utils.ToWholeNumberE(v)
}

// toDecimal 经由字符串转换，避免 0.1 这类值引入二进制浮点误差
func toDecimal(v any) (decimal.Decimal, error) {
	if v == nil || v == "" {
		return decimal.Zero, nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(s)
}
