// Package application 商品目录应用层：命令、查询与服务门面
package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// CatalogApplicationService 商品目录服务门面，整合命令服务和查询服务
type CatalogApplicationService struct {
	commandService *CatalogCommandService
	queryService   *CatalogQueryService
}

// NewCatalogApplicationService 创建商品目录服务门面实例
func NewCatalogApplicationService(
	repo domain.ProductRepository,
	publisher domain.EventPublisher,
	ids IDGenerator,
	opts domain.MutatorOptions,
) *CatalogApplicationService {
	return &CatalogApplicationService{
		commandService: NewCatalogCommandService(repo, publisher, ids, opts),
		queryService:   NewCatalogQueryService(repo),
	}
}

// CreateProduct 创建商品
func (s *CatalogApplicationService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (domain.Product, error) {
	return s.commandService.CreateProduct(ctx, cmd)
}

// UpdateProduct 更新商品
func (s *CatalogApplicationService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (domain.Product, error) {
	return s.commandService.UpdateProduct(ctx, cmd)
}

// AddDiscount 追加阶梯折扣
func (s *CatalogApplicationService) AddDiscount(ctx context.Context, cmd AddDiscountCommand) (domain.Product, error) {
	return s.commandService.AddDiscount(ctx, cmd)
}

// RemoveDiscount 删除阶梯折扣
func (s *CatalogApplicationService) RemoveDiscount(ctx context.Context, productID string, index int) (domain.Product, error) {
	return s.commandService.RemoveDiscount(ctx, RemoveDiscountCommand{ProductID: productID, Index: index})
}

// GetProduct 获取商品
func (s *CatalogApplicationService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.queryService.GetProduct(ctx, id)
}

// ListProducts 分页列出商品
func (s *CatalogApplicationService) ListProducts(ctx context.Context, page, size int) ([]domain.Product, *utils.Pagination, error) {
	return s.queryService.ListProducts(ctx, page, size)
}
