// Package metrics 提供 Prometheus helper，包含 HTTP、领域事件与购物车相关的指标
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wyfcoding/storefront/pkg/logger"
)

const namespace = "storefront"

// Metrics 指标集合，每个实例持有独立的 Registry
type Metrics struct {
	registry *prometheus.Registry

	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec
	// HTTP 响应大小
	HTTPResponseSize *prometheus.HistogramVec
	// 被限流的请求
	RateLimitedTotal prometheus.Counter

	// 领域事件计数
	DomainEventsTotal *prometheus.CounterVec
	// 优惠券应用计数
	CouponsAppliedTotal *prometheus.CounterVec
	// 数量变更被库存截断的次数
	QuantityClampedTotal prometheus.Counter
	// 活跃购物会话
	SessionsActive prometheus.Gauge
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}
	return &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_response_size_bytes",
			Help:        "HTTP response size in bytes",
			Buckets:     []float64{100, 1000, 10000, 100000, 1000000},
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		RateLimitedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_rate_limited_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: constLabels,
		}),

		DomainEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "domain_events_total",
			Help:        "Domain events published, by topic",
			ConstLabels: constLabels,
		}, []string{"topic"}),
		CouponsAppliedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "coupons_applied_total",
			Help:        "Coupons selected on a cart, by discount type",
			ConstLabels: constLabels,
		}, []string{"discount_type"}),
		QuantityClampedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "cart_quantity_clamped_total",
			Help:        "Quantity updates clamped to available stock",
			ConstLabels: constLabels,
		}),
		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "cart_sessions_active",
			Help:        "Number of cart sessions held in memory",
			ConstLabels: constLabels,
		}),
	}
}

// Register 注册所有指标以及 Go 运行时与进程指标
func (m *Metrics) Register() error {
	metrics := []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.RateLimitedTotal,
		m.DomainEventsTotal,
		m.CouponsAppliedTotal,
		m.QuantityClampedTotal,
		m.SessionsActive,
	}

	for _, metric := range metrics {
		if err := m.registry.Register(metric); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	logger.Debug(context.Background(), "Metrics registered successfully")
	return nil
}

// Registry 返回指标所在的 Registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler 返回暴露本实例指标的 HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// MetricsCollector 指标收集器接口
type MetricsCollector interface {
	// 记录 HTTP 请求
	RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64)
	// 记录被限流的请求
	RecordRateLimited()
	// 记录领域事件
	RecordEvent(topic string)
	// 记录优惠券应用
	RecordCouponApplied(discountType string)
	// 记录数量截断
	RecordQuantityClamped()
	// 更新活跃会话数
	UpdateActiveSessions(count int)
}

// DefaultMetricsCollector 默认指标收集器实现
type DefaultMetricsCollector struct {
	metrics *Metrics
}

// NewDefaultMetricsCollector 创建默认指标收集器
func NewDefaultMetricsCollector(metrics *Metrics) *DefaultMetricsCollector {
	return &DefaultMetricsCollector{
		metrics: metrics,
	}
}

// RecordHTTPRequest 记录 HTTP 请求
func (dmc *DefaultMetricsCollector) RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64) {
	dmc.metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	dmc.metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	if responseSize > 0 {
		dmc.metrics.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

// RecordRateLimited 记录被限流的请求
func (dmc *DefaultMetricsCollector) RecordRateLimited() {
	dmc.metrics.RateLimitedTotal.Inc()
}

// RecordEvent 记录领域事件
func (dmc *DefaultMetricsCollector) RecordEvent(topic string) {
	dmc.metrics.DomainEventsTotal.WithLabelValues(topic).Inc()
}

// RecordCouponApplied 记录优惠券应用
func (dmc *DefaultMetricsCollector) RecordCouponApplied(discountType string) {
	dmc.metrics.CouponsAppliedTotal.WithLabelValues(discountType).Inc()
}

// RecordQuantityClamped 记录数量截断
func (dmc *DefaultMetricsCollector) RecordQuantityClamped() {
	dmc.metrics.QuantityClampedTotal.Inc()
}

// UpdateActiveSessions 更新活跃会话数
func (dmc *DefaultMetricsCollector) UpdateActiveSessions(count int) {
	dmc.metrics.SessionsActive.Set(float64(count))
}

// NopCollector 不记录任何指标，用于关闭指标或测试
type NopCollector struct{}

func (NopCollector) RecordHTTPRequest(string, string, int, float64, int64) {}
func (NopCollector) RecordRateLimited()                                    {}
func (NopCollector) RecordEvent(string)                                    {}
func (NopCollector) RecordCouponApplied(string)                            {}
func (NopCollector) RecordQuantityClamped()                                {}
func (NopCollector) UpdateActiveSessions(int)                              {}
