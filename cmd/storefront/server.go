package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cartapp "github.com/wyfcoding/storefront/internal/cart/application"
	cartdomain "github.com/wyfcoding/storefront/internal/cart/domain"
	cartmemory "github.com/wyfcoding/storefront/internal/cart/infrastructure/persistence/memory"
	carthttp "github.com/wyfcoding/storefront/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/storefront/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/storefront/internal/catalog/domain"
	catalogmemory "github.com/wyfcoding/storefront/internal/catalog/infrastructure/persistence/memory"
	cataloghttp "github.com/wyfcoding/storefront/internal/catalog/interfaces/http"
	couponapp "github.com/wyfcoding/storefront/internal/coupon/application"
	coupondomain "github.com/wyfcoding/storefront/internal/coupon/domain"
	couponmemory "github.com/wyfcoding/storefront/internal/coupon/infrastructure/persistence/memory"
	couponhttp "github.com/wyfcoding/storefront/internal/coupon/interfaces/http"
	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/eventbus"
	"github.com/wyfcoding/storefront/pkg/metrics"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/ratelimit"
	"github.com/wyfcoding/storefront/pkg/response"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// allTopics 审计订阅的全部领域事件主题
var allTopics = []string{
	catalogdomain.TopicProductCreated,
	catalogdomain.TopicProductUpdated,
	catalogdomain.TopicProductStockChanged,
	catalogdomain.TopicProductDiscountAdded,
	catalogdomain.TopicProductDiscountRemoved,
	coupondomain.TopicCouponCreated,
	cartdomain.TopicCartItemAdded,
	cartdomain.TopicCartItemRemoved,
	cartdomain.TopicCartQuantityUpdated,
	cartdomain.TopicCartCouponApplied,
	cartdomain.TopicCartCleared,
}

// server 组装完成的服务
type server struct {
	engine *gin.Engine
	bus    *eventbus.Bus
}

// newServer 按配置组装仓储、事件总线、应用服务与路由
func newServer(cfg *config.Config) (*server, error) {
	// 指标
	m := metrics.New(cfg.ServiceName)
	var collector metrics.MetricsCollector = metrics.NopCollector{}
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		collector = metrics.NewDefaultMetricsCollector(m)
	}

	// 仓储
	products, err := seedProducts(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	coupons, err := seedCoupons(cfg.Coupons)
	if err != nil {
		return nil, err
	}
	productRepo := catalogmemory.NewProductRepository(products...)
	couponRepo := couponmemory.NewCouponRepository(coupons...)
	sessionRepo := cartmemory.NewSessionRepository()

	// 事件总线
	bus := eventbus.New()
	if err := bus.Audit(allTopics, collector); err != nil {
		return nil, fmt.Errorf("subscribe audit: %w", err)
	}
	if err := cartapp.NewObserver(sessionRepo, collector).Register(bus); err != nil {
		return nil, fmt.Errorf("subscribe cart observer: %w", err)
	}

	// 应用服务
	ids, err := utils.NewIDGenerator(cfg.Catalog.NodeID)
	if err != nil {
		return nil, fmt.Errorf("init id generator: %w", err)
	}
	catalogSvc := catalogapp.NewCatalogApplicationService(productRepo, bus, ids, catalogdomain.MutatorOptions{
		ValidateDiscounts: cfg.Catalog.ValidateDiscounts,
	})
	couponSvc := couponapp.NewCouponApplicationService(couponRepo, bus)
	cartSvc := cartapp.NewCartApplicationService(sessionRepo, productRepo, couponRepo, bus, cartdomain.PricingOptions{
		FloorCouponTotal: cfg.Pricing.FloorCouponTotal,
	})

	// 路由
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(collector),
		middleware.RateLimitMiddleware(ratelimit.NewLocalRateLimiter(), middleware.RateLimitConfig{
			QPS:   cfg.HTTP.RateLimitQPS,
			Burst: cfg.HTTP.RateLimitBurst,
		}, collector),
	)

	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{"status": "ok", "service": cfg.ServiceName, "version": cfg.Version})
	})
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	api := r.Group("/api/v1", middleware.GinSessionMiddleware())
	cataloghttp.NewCatalogHandler(catalogSvc, cartSvc).RegisterRoutes(api)
	couponhttp.NewCouponHandler(couponSvc).RegisterRoutes(api)
	carthttp.NewCartHandler(cartSvc).RegisterRoutes(api)

	return &server{engine: r, bus: bus}, nil
}

// httpServer 带超时设置的 http.Server
func (s *server) httpServer(cfg config.HTTPConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.engine,
		ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
	}
}

func seedProducts(cfg config.CatalogConfig) ([]catalogdomain.Product, error) {
	products := make([]catalogdomain.Product, 0, len(cfg.Products))
	for _, seed := range cfg.Products {
		discounts := make([]catalogdomain.Discount, 0, len(seed.Discounts))
		for _, d := range seed.Discounts {
			discounts = append(discounts, catalogdomain.NewDiscount(d.Quantity, d.Rate))
		}
		// 价格与库存始终校验，validate_discounts 只控制折扣档位
		p := catalogdomain.NewProduct(seed.ID, seed.Name, seed.Price, seed.Stock)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("seed product %s: %w", seed.ID, err)
		}
		if cfg.ValidateDiscounts {
			for _, d := range discounts {
				if err := d.Validate(); err != nil {
					return nil, fmt.Errorf("seed product %s: %w", seed.ID, err)
				}
			}
		}
		p.Discounts = discounts
		products = append(products, p)
	}
	return products, nil
}

func seedCoupons(seeds []config.CouponSeed) ([]coupondomain.Coupon, error) {
	coupons := make([]coupondomain.Coupon, 0, len(seeds))
	for _, seed := range seeds {
		c := coupondomain.Coupon{
			Name:          seed.Name,
			Code:          seed.Code,
			DiscountType:  coupondomain.DiscountType(seed.DiscountType),
			DiscountValue: seed.DiscountValue,
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("seed coupon %s: %w", seed.Code, err)
		}
		coupons = append(coupons, c)
	}
	return coupons, nil
}
