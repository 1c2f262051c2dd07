package domain

// MutatorOptions 控制目录变更函数的行为
type MutatorOptions struct {
	// ValidateDiscounts 为 false 时不校验阶梯折扣，保持与旧数据的兼容
	ValidateDiscounts bool
}

// DefaultMutatorOptions 默认开启折扣校验
func DefaultMutatorOptions() MutatorOptions {
	return MutatorOptions{ValidateDiscounts: true}
}

// FindProductByID 线性查找第一个匹配的商品，找不到不是错误
func FindProductByID(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// AddDiscountToProduct 返回在折扣列表末尾追加了 discount 的新商品
// 不去重；开启校验时阈值必须为正、折扣率必须位于 [0,1]
func AddDiscountToProduct(product Product, discount Discount, opts MutatorOptions) (Product, error) {
	if opts.ValidateDiscounts {
		if err := discount.Validate(); err != nil {
			return product, err
		}
	}

	out := product.Clone()
	out.Discounts = append(out.Discounts, discount)
	return out, nil
}

// RemoveDiscountFromProduct 返回去掉第 index 个折扣的新商品
// index 越界时折扣列表内容保持不变
func RemoveDiscountFromProduct(product Product, index int) Product {
	out := product
	out.Discounts = make([]Discount, 0, len(product.Discounts))
	for i, d := range product.Discounts {
		if i != index {
			out.Discounts = append(out.Discounts, d)
		}
	}
	return out
}

// ReplaceProduct 用 updated 替换 ID 相同的商品，返回新的商品列表
func ReplaceProduct(products []Product, updated Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		if p.ID == updated.ID {
			out[i] = updated
			continue
		}
		out[i] = p
	}
	return out
}
