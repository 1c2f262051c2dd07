// Package memory 商品目录的内存存储实现
package memory

import (
	"context"
	"sync"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

// productRepository 以不可变快照保存商品列表，更新时整体替换
type productRepository struct {
	mu       sync.RWMutex
	products []domain.Product
}

// NewProductRepository 创建商品仓储，seed 按顺序成为初始目录
func NewProductRepository(seed ...domain.Product) domain.ProductRepository {
	products := make([]domain.Product, 0, len(seed))
	for _, p := range seed {
		products = append(products, p.Clone())
	}
	return &productRepository{products: products}
}

func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.products), nil
}

func (r *productRepository) Get(_ context.Context, id string) (domain.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := domain.FindProductByID(r.products, id)
	if !ok {
		return domain.Product{}, false, nil
	}
	return p.Clone(), true, nil
}

func (r *productRepository) Add(_ context.Context, product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := domain.FindProductByID(r.products, product.ID); ok {
		return domain.ErrDuplicateProduct
	}
	next := make([]domain.Product, len(r.products), len(r.products)+1)
	copy(next, r.products)
	r.products = append(next, product.Clone())
	return nil
}

func (r *productRepository) Update(_ context.Context, fn func([]domain.Product) ([]domain.Product, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := fn(cloneAll(r.products))
	if err != nil {
		return err
	}
	r.products = cloneAll(next)
	return nil
}

func cloneAll(in []domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
