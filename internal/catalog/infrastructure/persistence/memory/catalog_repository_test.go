package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
)

func TestProductRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(
		domain.NewProduct("p1", "상품1", 10000, 20, domain.NewDiscount(10, 0.1)),
	)

	require.NoError(t, repo.Add(ctx, domain.NewProduct("p2", "상품2", 20000, 5)))
	assert.ErrorIs(t, repo.Add(ctx, domain.NewProduct("p1", "dup", 1, 1)), domain.ErrDuplicateProduct)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, "p2", list[1].ID)

	p, ok, err := repo.Get(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 20000, p.Price)

	_, ok, err = repo.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(domain.NewProduct("p1", "상품1", 10000, 20, domain.NewDiscount(10, 0.1)))

	p, _, _ := repo.Get(ctx, "p1")
	p.Discounts[0].Quantity = 99
	p.Stock = 0

	again, _, _ := repo.Get(ctx, "p1")
	assert.Equal(t, 10, again.Discounts[0].Quantity)
	assert.Equal(t, 20, again.Stock)
}

func TestProductRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(domain.NewProduct("p1", "상품1", 10000, 20))

	err := repo.Update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		p, _ := domain.FindProductByID(products, "p1")
		p.Stock = 3
		return domain.ReplaceProduct(products, p), nil
	})
	require.NoError(t, err)
	p, _, _ := repo.Get(ctx, "p1")
	assert.Equal(t, 3, p.Stock)

	boom := errors.New("boom")
	err = repo.Update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	p, _, _ = repo.Get(ctx, "p1")
	assert.Equal(t, 3, p.Stock)
}

func TestProductRepositoryConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(domain.NewProduct("p1", "상품1", 10000, 0))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Update(ctx, func(products []domain.Product) ([]domain.Product, error) {
				p, _ := domain.FindProductByID(products, "p1")
				p.Stock++
				return domain.ReplaceProduct(products, p), nil
			})
		}()
	}
	wg.Wait()

	p, _, _ := repo.Get(ctx, "p1")
	assert.Equal(t, 50, p.Stock)
}
