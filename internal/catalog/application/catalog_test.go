package application

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/memory"
)

type published struct {
	topic string
	key   string
	event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic, key, event})
	return nil
}

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.topic
	}
	return out
}

type sequenceIDs struct{ n int }

func (s *sequenceIDs) NewString() string {
	s.n++
	return "gen-" + strconv.Itoa(s.n)
}

func newService(opts domain.MutatorOptions, seed ...domain.Product) (*CatalogApplicationService, *recordingPublisher) {
	pub := &recordingPublisher{}
	svc := NewCatalogApplicationService(memory.NewProductRepository(seed...), pub, &sequenceIDs{}, opts)
	return svc, pub
}

func p1() domain.Product {
	return domain.NewProduct("p1", "상품1", 10000, 20, domain.NewDiscount(10, 0.1), domain.NewDiscount(20, 0.2))
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService(domain.DefaultMutatorOptions())

	p, err := svc.CreateProduct(ctx, CreateProductCommand{Name: "new", Price: 500, Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, "gen-1", p.ID)
	assert.NotNil(t, p.Discounts)

	got, err := svc.GetProduct(ctx, "gen-1")
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Equal(t, []string{domain.TopicProductCreated}, pub.topics())

	_, err = svc.CreateProduct(ctx, CreateProductCommand{ID: "gen-1"})
	assert.ErrorIs(t, err, domain.ErrDuplicateProduct)
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService(domain.DefaultMutatorOptions())

	_, err := svc.CreateProduct(ctx, CreateProductCommand{Price: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateProduct(ctx, CreateProductCommand{Discounts: []domain.Discount{domain.NewDiscount(0, 0.1)}})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, pub.topics())

	lenient, _ := newService(domain.MutatorOptions{})
	_, err = lenient.CreateProduct(ctx, CreateProductCommand{Discounts: []domain.Discount{domain.NewDiscount(0, 1.5)}})
	assert.NoError(t, err)
}

func TestUpdateProductKeepsDiscounts(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService(domain.DefaultMutatorOptions(), p1())

	updated, err := svc.UpdateProduct(ctx, UpdateProductCommand{ID: "p1", Name: "renamed", Price: 12000, Stock: 5})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Len(t, updated.Discounts, 2)
	assert.Equal(t, []string{domain.TopicProductUpdated, domain.TopicProductStockChanged}, pub.topics())

	_, err = svc.UpdateProduct(ctx, UpdateProductCommand{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateProductSameStockPublishesOnce(t *testing.T) {
	svc, pub := newService(domain.DefaultMutatorOptions(), p1())
	_, err := svc.UpdateProduct(context.Background(), UpdateProductCommand{ID: "p1", Name: "x", Price: 1, Stock: 20})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.TopicProductUpdated}, pub.topics())
}

func TestAddAndRemoveDiscount(t *testing.T) {
	ctx := context.Background()
	svc, pub := newService(domain.DefaultMutatorOptions(), p1())

	added, err := svc.AddDiscount(ctx, AddDiscountCommand{ProductID: "p1", Quantity: 30, Rate: decimal.RequireFromString("0.3")})
	require.NoError(t, err)
	require.Len(t, added.Discounts, 3)
	assert.Equal(t, 30, added.Discounts[2].Quantity)

	removed, err := svc.RemoveDiscount(ctx, "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, p1().Discounts, removed.Discounts)

	unchanged, err := svc.RemoveDiscount(ctx, "p1", 9)
	require.NoError(t, err)
	assert.Equal(t, p1().Discounts, unchanged.Discounts)

	require.Len(t, pub.events, 3)
	assert.True(t, pub.events[1].event.(domain.ProductDiscountRemovedEvent).Removed)
	assert.False(t, pub.events[2].event.(domain.ProductDiscountRemovedEvent).Removed)
}

func TestAddDiscountErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(domain.DefaultMutatorOptions(), p1())

	_, err := svc.AddDiscount(ctx, AddDiscountCommand{ProductID: "p1", Quantity: 5, Rate: decimal.NewFromInt(2)})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "rate", verr.Field)

	_, err = svc.AddDiscount(ctx, AddDiscountCommand{ProductID: "nope", Quantity: 5})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.RemoveDiscount(ctx, "nope", 0)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	p, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, p.Discounts, 2)
}

func TestListProducts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(domain.DefaultMutatorOptions(),
		domain.NewProduct("a", "a", 1, 1),
		domain.NewProduct("b", "b", 1, 1),
		domain.NewProduct("c", "c", 1, 1),
	)

	all, page, err := svc.ListProducts(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.EqualValues(t, 3, page.Total)

	second, page, err := svc.ListProducts(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "c", second[0].ID)
	assert.EqualValues(t, 2, page.Pages)
}

func TestProductFormCoercion(t *testing.T) {
	form := ProductForm{
		Name:  "Widget",
		Price: "1500",
		Stock: 7.0,
		Discounts: []DiscountForm{
			{Quantity: "10", Rate: "0.1"},
			{Quantity: 20, Rate: 0.2},
		},
	}

	cmd, err := form.ToCreateCommand()
	require.NoError(t, err)
	assert.Empty(t, cmd.ID)
	assert.EqualValues(t, 1500, cmd.Price)
	assert.Equal(t, 7, cmd.Stock)
	require.Len(t, cmd.Discounts, 2)
	assert.True(t, decimal.RequireFromString("0.1").Equal(cmd.Discounts[0].Rate))
	assert.True(t, decimal.RequireFromString("0.2").Equal(cmd.Discounts[1].Rate))

	empty, err := ProductForm{}.ToCreateCommand()
	require.NoError(t, err)
	assert.Zero(t, empty.Price)
	assert.Empty(t, empty.Discounts)

	_, err = ProductForm{Price: "abc"}.ToCreateCommand()
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ProductForm{Price: "1500.5"}.ToCreateCommand()
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ProductForm{Price: 1500, Stock: 2.7}.ToCreateCommand()
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = DiscountForm{Quantity: "2.5", Rate: "0.1"}.ToCommand("p1")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = DiscountForm{Quantity: 1, Rate: "x"}.ToCommand("p1")
	assert.ErrorIs(t, err, domain.ErrValidation)

	upd, err := ProductForm{Name: "n", Price: 3, Stock: "4"}.ToUpdateCommand("p1")
	require.NoError(t, err)
	assert.Equal(t, UpdateProductCommand{ID: "p1", Name: "n", Price: 3, Stock: 4}, upd)
}
