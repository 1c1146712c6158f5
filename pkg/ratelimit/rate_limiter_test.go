package ratelimit

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig() *Config {
	return &Config{
		Enabled:             true,
		WindowDuration:      time.Minute,
		DefaultRequests:     60,
		PublicRequests:      100,
		AuthRequests:        10,
		PurchaseRequests:    2,
		MarketplaceRequests: 40,
		AdminRequests:       200,
		HealthRequests:      300,
		WhitelistedIPs:      []string{"10.0.0.1"},
	}
}

func newLimiter(t *testing.T) (*RateLimiter, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	limiter := NewRateLimiter(db, testConfig())
	limiter.now = func() time.Time { return fixedNow }
	return limiter, mock
}

func expectEval(mock redismock.ClientMock, key string, limit int) *redismock.ExpectedCmd {
	return mock.ExpectEval(slidingWindowScript, []string{key},
		fixedNow.Add(-time.Minute).UnixMilli(),
		fixedNow.UnixMilli(),
		limit,
		60,
		fmt.Sprintf("%d", fixedNow.UnixNano()),
	)
}

func TestIsAllowed(t *testing.T) {
	limiter, mock := newLimiter(t)
	ctx := t.Context()

	expectEval(mock, "boletamaster:ratelimit:1.2.3.4:purchase", 2).SetVal([]interface{}{int64(1), int64(1), int64(1)})
	expectEval(mock, "boletamaster:ratelimit:1.2.3.4:purchase", 2).SetVal([]interface{}{int64(0), int64(2), int64(0)})

	first, err := limiter.IsAllowed(ctx, "1.2.3.4", RateLimitTypePurchase)
	require.NoError(t, err)
	assert.True(t, first.Allowed)
	assert.Equal(t, 1, first.Remaining)

	second, err := limiter.IsAllowed(ctx, "1.2.3.4", RateLimitTypePurchase)
	require.NoError(t, err)
	assert.False(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)
	assert.Equal(t, 2, second.Limit)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAllowedBypass(t *testing.T) {
	limiter, mock := newLimiter(t)

	res, err := limiter.IsAllowed(t.Context(), "10.0.0.1", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 10, res.Remaining)

	limiter.config.Enabled = false
	res, err = limiter.IsAllowed(t.Context(), "1.2.3.4", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsAllowedRedisError(t *testing.T) {
	limiter, mock := newLimiter(t)
	expectEval(mock, "boletamaster:ratelimit:1.2.3.4:default", 60).SetErr(errors.New("connection refused"))

	_, err := limiter.IsAllowed(t.Context(), "1.2.3.4", RateLimitTypeDefault)
	assert.Error(t, err)
}

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		path string
		want RateLimitType
	}{
		{"/health", RateLimitTypeHealth},
		{"/metrics", RateLimitTypeHealth},
		{"/api/v1/admin/fees", RateLimitTypeAdmin},
		{"/api/v1/admin/marketplace/log", RateLimitTypeAdmin},
		{"/api/v1/auth/login", RateLimitTypeAuth},
		{"/api/v1/me/purchases", RateLimitTypePurchase},
		{"/api/v1/refunds/tickets/:id", RateLimitTypePurchase},
		{"/api/v1/marketplace/offers/:id/bids", RateLimitTypeMarketplace},
		{"/api/v1/events/:id/sections", RateLimitTypePublic},
		{"/api/v1/organizer/events", RateLimitTypeDefault},
		{"/api/v1/me/wallet", RateLimitTypeDefault},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.path))
		})
	}
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, mock := newLimiter(t)
	expectEval(mock, "boletamaster:ratelimit:192.0.2.1:purchase", 2).SetVal([]interface{}{int64(0), int64(2), int64(0)})

	engine := gin.New()
	engine.Use(Middleware(limiter))
	engine.POST("/api/v1/me/purchases", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/me/purchases", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.NoError(t, mock.ExpectationsWereMet())
}
