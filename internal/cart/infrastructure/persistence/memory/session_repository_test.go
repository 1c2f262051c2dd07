package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	coupon "github.com/wyfcoding/storefront/internal/coupon/domain"
)

var widget = catalog.NewProduct("w", "widget", 1000, 100)

func TestSessionRepositoryGetMissing(t *testing.T) {
	repo := NewSessionRepository()
	s, err := repo.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
	assert.Empty(t, s.Cart)
	assert.Nil(t, s.Coupon)

	n, _ := repo.Count(context.Background())
	assert.Zero(t, n)
}

func TestSessionRepositoryUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	saved, err := repo.Update(ctx, "s1", func(s *domain.Session) error {
		s.Cart = domain.AddToCart(s.Cart, widget)
		s.Coupon = &coupon.Coupon{Code: "C", DiscountType: coupon.DiscountTypeAmount}
		return nil
	})
	require.NoError(t, err)
	require.Len(t, saved.Cart, 1)

	// 返回值是副本
	saved.Cart[0].Quantity = 50
	saved.Coupon.Code = "mutated"

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Cart[0].Quantity)
	assert.Equal(t, "C", got.Coupon.Code)
	assert.False(t, got.UpdatedAt.IsZero())

	n, _ := repo.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestSessionRepositoryUpdateErrorDiscards(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	boom := errors.New("boom")
	_, err := repo.Update(ctx, "s1", func(s *domain.Session) error {
		s.Cart = domain.AddToCart(s.Cart, widget)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, _ := repo.Count(ctx)
	assert.Zero(t, n)
}

func TestSessionRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	_, _ = repo.Update(ctx, "s1", func(*domain.Session) error { return nil })

	require.NoError(t, repo.Delete(ctx, "s1"))
	require.NoError(t, repo.Delete(ctx, "missing"))
	n, _ := repo.Count(ctx)
	assert.Zero(t, n)
}

func TestSessionRepositoryConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Update(ctx, "s1", func(s *domain.Session) error {
				s.Cart = domain.AddToCart(s.Cart, widget)
				return nil
			})
		}()
	}
	wg.Wait()

	s, _ := repo.Get(ctx, "s1")
	assert.Equal(t, 40, s.Cart.TotalQuantity())
}
