package application

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	repo domain.ProductRepository
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(
	repo domain.ProductRepository,
) *CatalogQueryService {
	return &CatalogQueryService{
		repo: repo,
	}
}

// GetProduct 根据ID获取商品信息
func (s *CatalogQueryService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, ok, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !ok {
		return domain.Product{}, errors.Wrapf(domain.ErrProductNotFound, "product %s", id)
	}
	return p, nil
}

// ListProducts 列出商品，size <= 0 时返回全部
func (s *CatalogQueryService) ListProducts(ctx context.Context, page, size int) ([]domain.Product, *utils.Pagination, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	if size <= 0 {
		return products, utils.NewPagination(1, max(len(products), 1), int64(len(products))), nil
	}
	p := utils.NewPagination(page, size, int64(len(products)))
	return utils.Paginate(products, p), p, nil
}
