package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/storefront/pkg/config"
	"github.com/wyfcoding/storefront/pkg/middleware"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadWithDefaults("")
	require.NoError(t, err)
	cfg.ServiceName = "storefront-test"
	cfg.Environment = "test"
	return cfg
}

func call(t *testing.T, h http.Handler, method, path, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.Header.Set(middleware.HeaderSessionID, session)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerEndToEnd(t *testing.T) {
	srv, err := newServer(testConfig(t))
	require.NoError(t, err)
	h := srv.engine

	rec := call(t, h, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = call(t, h, http.MethodPost, "/api/v1/cart/items", "s1", `{"product_id":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = call(t, h, http.MethodPut, "/api/v1/cart/items/p1", "s1", `{"quantity":25}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"quantity":20`)

	rec = call(t, h, http.MethodPost, "/api/v1/cart/coupon", "s1", `{"code":"PERCENT10"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(t, h, http.MethodGet, "/api/v1/products", "s1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remainingStock":0`)

	srv.bus.Wait()
	rec = call(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `storefront_domain_events_total`)
	assert.Contains(t, out, `topic="cart.item.added"`)
	assert.Contains(t, out, `storefront_cart_quantity_clamped_total{service="storefront-test"} 1`)
	assert.Contains(t, out, `discount_type="percentage"`)
	assert.Contains(t, out, `storefront_cart_sessions_active{service="storefront-test"} 1`)
	assert.Contains(t, out, `path="/api/v1/cart/items/:product_id"`)
}

func TestServerAdminCreatesProductWithGeneratedID(t *testing.T) {
	srv, err := newServer(testConfig(t))
	require.NoError(t, err)

	rec := call(t, srv.engine, http.MethodPost, "/api/v1/admin/products", "", `{"name":"Widget","price":"1500","stock":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), `"id":""`)
}

func TestServerRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTP.RateLimitQPS = 1
	cfg.HTTP.RateLimitBurst = 1
	srv, err := newServer(cfg)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, call(t, srv.engine, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, call(t, srv.engine, http.MethodGet, "/health", "", "").Code)
}

func TestServerWithoutMetrics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics.Enabled = false
	srv, err := newServer(cfg)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, call(t, srv.engine, http.MethodGet, "/metrics", "", "").Code)
}

func TestSeedValidation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Coupons = []config.CouponSeed{{Name: "bad", Code: "BAD", DiscountType: "bogo"}}
	_, err := newServer(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Catalog.Products = []config.ProductSeed{{ID: "x", Price: 1, Stock: 1, Discounts: []config.DiscountSeed{{Quantity: 0, Rate: 0.1}}}}
	_, err = newServer(cfg)
	assert.Error(t, err)

	cfg.Catalog.ValidateDiscounts = false
	_, err = newServer(cfg)
	assert.NoError(t, err)
}

func TestSeedPriceAndStockAlwaysValidated(t *testing.T) {
	for name, seed := range map[string]config.ProductSeed{
		"negative price": {ID: "x", Price: -1, Stock: 1},
		"negative stock": {ID: "x", Price: 1, Stock: -5},
		"missing id":     {Price: 1, Stock: 1},
	} {
		t.Run(name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Catalog.ValidateDiscounts = false
			cfg.Catalog.Products = []config.ProductSeed{seed}
			_, err := newServer(cfg)
			assert.Error(t, err)
		})
	}
}

func TestHTTPServerTimeouts(t *testing.T) {
	cfg := testConfig(t)
	srv, err := newServer(cfg)
	require.NoError(t, err)

	hs := srv.httpServer(cfg.HTTP)
	assert.Equal(t, "0.0.0.0:8080", hs.Addr)
	assert.EqualValues(t, 30, hs.ReadTimeout.Seconds())
}

func TestShippedConfigLoads(t *testing.T) {
	cfg, err := config.Load("../../configs/storefront/config.toml")
	require.NoError(t, err)
	assert.Len(t, cfg.Catalog.Products, 3)
	assert.Len(t, cfg.Coupons, 2)

	cfg.Environment = "test"
	_, err = newServer(cfg)
	assert.NoError(t, err)
}
