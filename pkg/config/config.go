// Package config 提供 TOML 配置加载、环境变量覆盖与校验
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config 基础配置结构
type Config struct {
	// 服务名称
	ServiceName string `mapstructure:"service_name"`
	// 服务版本
	Version string `mapstructure:"version"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 计价配置
	Pricing PricingConfig `mapstructure:"pricing"`
	// 商品目录配置
	Catalog CatalogConfig `mapstructure:"catalog"`
	// 初始优惠券
	Coupons []CouponSeed `mapstructure:"coupons"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	// 监听地址
	Host string `mapstructure:"host"`
	// 监听端口
	Port int `mapstructure:"port"`
	// 读超时（秒）
	ReadTimeout int `mapstructure:"read_timeout"`
	// 写超时（秒）
	WriteTimeout int `mapstructure:"write_timeout"`
	// 每秒允许的请求数，<= 0 关闭限流
	RateLimitQPS float64 `mapstructure:"rate_limit_qps"`
	// 令牌桶容量
	RateLimitBurst int `mapstructure:"rate_limit_burst"`
}

// Addr 返回监听地址
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	// 是否启用
	Enabled bool `mapstructure:"enabled"`
	// 指标路径
	Path string `mapstructure:"path"`
}

// PricingConfig 计价配置
type PricingConfig struct {
	// 金额券抵扣后是否截断到 0，默认与参考实现一致不截断
	FloorCouponTotal bool `mapstructure:"floor_coupon_total"`
}

// CatalogConfig 商品目录配置
type CatalogConfig struct {
	// 是否校验阶梯折扣（阈值为正、折扣率在 [0,1]）
	ValidateDiscounts bool `mapstructure:"validate_discounts"`
	// 雪花 ID 节点号
	NodeID int64 `mapstructure:"node_id"`
	// 初始商品
	Products []ProductSeed `mapstructure:"products"`
}

// ProductSeed 初始商品
type ProductSeed struct {
	ID        string         `mapstructure:"id"`
	Name      string         `mapstructure:"name"`
	Price     int64          `mapstructure:"price"`
	Stock     int            `mapstructure:"stock"`
	Discounts []DiscountSeed `mapstructure:"discounts"`
}

// DiscountSeed 初始阶梯折扣
type DiscountSeed struct {
	Quantity int     `mapstructure:"quantity"`
	Rate     float64 `mapstructure:"rate"`
}

// CouponSeed 初始优惠券
type CouponSeed struct {
	Name          string `mapstructure:"name"`
	Code          string `mapstructure:"code"`
	DiscountType  string `mapstructure:"discount_type"`
	DiscountValue int64  `mapstructure:"discount_value"`
}

// Load 从 TOML 文件加载配置，文件必须存在
func Load(configPath string) (*Config, error) {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return decode(v)
}

// LoadWithDefaults 从 TOML 文件加载配置，文件不存在时只使用默认值与环境变量
func LoadWithDefaults(configPath string) (*Config, error) {
	v := newViper(configPath)

	// 读取配置文件（如果不存在则忽略）
	if configPath != "" {
		_ = v.ReadInConfig()
	}

	return decode(v)
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
	}

	// 环境变量覆盖：APP_HTTP_PORT 覆盖 http.port
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(cfg.Catalog.Products) == 0 {
		cfg.Catalog.Products = DefaultProducts()
	}
	if len(cfg.Coupons) == 0 {
		cfg.Coupons = DefaultCoupons()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}
	if c.Environment == "" {
		c.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.HTTP.RateLimitQPS > 0 && c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("rate_limit_burst must be positive when rate limiting is enabled")
	}
	if c.Catalog.NodeID < 0 || c.Catalog.NodeID > 1023 {
		return fmt.Errorf("catalog.node_id must be within [0,1023]: %d", c.Catalog.NodeID)
	}

	seen := make(map[string]struct{}, len(c.Catalog.Products))
	for _, p := range c.Catalog.Products {
		if p.ID == "" {
			return fmt.Errorf("catalog product %q has no id", p.Name)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("duplicate catalog product id: %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	codes := make(map[string]struct{}, len(c.Coupons))
	for _, cp := range c.Coupons {
		if cp.Code == "" {
			return fmt.Errorf("coupon %q has no code", cp.Name)
		}
		if _, ok := codes[cp.Code]; ok {
			return fmt.Errorf("duplicate coupon code: %s", cp.Code)
		}
		codes[cp.Code] = struct{}{}
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("service_name", "storefront")
	v.SetDefault("version", "dev")
	v.SetDefault("environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)
	v.SetDefault("http.rate_limit_qps", 0)
	v.SetDefault("http.rate_limit_burst", 0)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/storefront.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("pricing.floor_coupon_total", false)

	v.SetDefault("catalog.validate_discounts", true)
	v.SetDefault("catalog.node_id", 1)
}

// DefaultProducts 未配置初始商品时使用的商品目录
func DefaultProducts() []ProductSeed {
	return []ProductSeed{
		{ID: "p1", Name: "상품1", Price: 10000, Stock: 20, Discounts: []DiscountSeed{{Quantity: 10, Rate: 0.1}, {Quantity: 20, Rate: 0.2}}},
		{ID: "p2", Name: "상품2", Price: 20000, Stock: 20, Discounts: []DiscountSeed{{Quantity: 10, Rate: 0.15}}},
		{ID: "p3", Name: "상품3", Price: 30000, Stock: 20, Discounts: []DiscountSeed{{Quantity: 10, Rate: 0.2}}},
	}
}

// DefaultCoupons 未配置初始优惠券时使用的优惠券
func DefaultCoupons() []CouponSeed {
	return []CouponSeed{
		{Name: "5000원 할인 쿠폰", Code: "AMOUNT5000", DiscountType: "amount", DiscountValue: 5000},
		{Name: "10% 할인 쿠폰", Code: "PERCENT10", DiscountType: "percentage", DiscountValue: 10},
	}
}

// GetEnv 获取环境变量，支持默认值
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
