// 包 购物车的领域模型：购物车行、库存约束下的数量变更与价格计算
package domain

import (
	"time"

	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	coupon "github.com/wyfcoding/storefront/internal/coupon/domain"
)

// CartItem 购物车行：一个商品及其数量
type CartItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// Cart 按加入顺序排列的购物车行，每个商品 ID 最多一行
// 所有变更函数都返回新的 Cart，不修改入参
type Cart []CartItem

// Session 购物会话，持有购物车与当前选中的优惠券
type Session struct {
	ID        string         `json:"id"`
	Cart      Cart           `json:"cart"`
	Coupon    *coupon.Coupon `json:"coupon,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewSession 创建空会话
func NewSession(id string) *Session {
	return &Session{ID: id, Cart: Cart{}, UpdatedAt: time.Now()}
}

// Find 返回商品对应的购物车行
func (c Cart) Find(productID string) (CartItem, bool) {
	for _, item := range c {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return CartItem{}, false
}

// RemainingStock 商品库存减去购物车中已占用的数量
func RemainingStock(cart Cart, product catalog.Product) int {
	item, ok := cart.Find(product.ID)
	if !ok {
		return product.Stock
	}
	return product.Stock - item.Quantity
}

// AddToCart 加入一件商品
// 剩余库存不足时不变；已有该商品时数量加一（不超过库存），否则追加数量为 1 的新行
func AddToCart(cart Cart, product catalog.Product) Cart {
	if RemainingStock(cart, product) <= 0 {
		return cart
	}

	out := make(Cart, 0, len(cart)+1)
	found := false
	for _, item := range cart {
		if item.Product.ID == product.ID {
			found = true
			item.Quantity = min(item.Quantity+1, product.Stock)
		}
		out = append(out, item)
	}
	if !found {
		out = append(out, CartItem{Product: product, Quantity: 1})
	}
	return out
}

// RemoveFromCart 删除商品对应的行，不存在时不变
func RemoveFromCart(cart Cart, productID string) Cart {
	out := make(Cart, 0, len(cart))
	for _, item := range cart {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	return out
}

// UpdateQuantity 修改商品数量
// newQuantity <= 0 等同于删除；否则数量被截断到商品库存；商品不在购物车中时不变
// 截断后为 0（库存已清空）同样删除该行，购物车中不保留数量为 0 的行
func UpdateQuantity(cart Cart, productID string, newQuantity int) Cart {
	if newQuantity <= 0 {
		return RemoveFromCart(cart, productID)
	}

	out := make(Cart, 0, len(cart))
	for _, item := range cart {
		if item.Product.ID == productID {
			item.Quantity = min(newQuantity, item.Product.Stock)
			if item.Quantity <= 0 {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// SyncStock 用商品目录中的最新库存更新对应行的库存，数量超过新库存时截断，截断为 0 时删除该行
// 行内的其余商品字段保持加入时的快照
func SyncStock(cart Cart, product catalog.Product) Cart {
	out := make(Cart, 0, len(cart))
	for _, item := range cart {
		if item.Product.ID == product.ID {
			item.Product.Stock = product.Stock
			item.Quantity = min(item.Quantity, product.Stock)
			if item.Quantity <= 0 {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

// TotalQuantity 购物车商品总件数
func (c Cart) TotalQuantity() int {
	n := 0
	for _, item := range c {
		n += item.Quantity
	}
	return n
}
