package ratelimit

import (
	"net/http"
	"strconv"
	"strings"

	"boletamaster/internal/shared/utils/response"
	"boletamaster/pkg/logger"

	"github.com/gin-gonic/gin"
)

// tierRule assigns a tier to every route template matching one of its fragments.
// Rules are evaluated in order; the first match wins.
type tierRule struct {
	tier      RateLimitType
	prefixes  []string
	fragments []string
}

var tierRules = []tierRule{
	{tier: RateLimitTypeHealth, prefixes: []string{"/health", "/ping", "/metrics"}},
	{tier: RateLimitTypeAdmin, fragments: []string{"/admin/"}},
	{tier: RateLimitTypeAuth, fragments: []string{"/auth/"}},
	{tier: RateLimitTypePurchase, fragments: []string{"/me/purchases", "/me/tickets/", "/me/bundles/", "/refunds/"}},
	{tier: RateLimitTypeMarketplace, fragments: []string{"/marketplace"}},
	{tier: RateLimitTypeDefault, fragments: []string{"/organizer/"}},
	{tier: RateLimitTypePublic, fragments: []string{"/events", "/venues"}},
}

func (r tierRule) matches(path string) bool {
	for _, p := range r.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	for _, f := range r.fragments {
		if strings.Contains(path, f) {
			return true
		}
	}
	return false
}

// Middleware enforces the tier budget of the matched route for each client IP
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		clientIP := c.ClientIP()
		route := c.FullPath()

		result, err := rateLimiter.IsAllowed(ctx, clientIP, getRateLimitType(route))
		if err != nil {
			logger.GetDefault().ErrorContext(ctx, "Rate Limit Check Failed", "error", err, "ip", clientIP)
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Rate limit check failed", nil, nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if result.Allowed {
			c.Next()
			return
		}

		logger.GetDefault().LogRateLimitExceeded(ctx, clientIP, route)
		if wait := result.ResetTime - rateLimiter.now().Unix(); wait > 0 {
			c.Header("Retry-After", strconv.FormatInt(wait, 10))
		}
		response.RespondJSON(c, "error", http.StatusTooManyRequests, "Rate limit exceeded", nil, gin.H{
			"limit":      result.Limit,
			"reset_time": result.ResetTime,
		})
		c.Abort()
	}
}

// getRateLimitType maps a route template to its budget tier
func getRateLimitType(path string) RateLimitType {
	if strings.HasSuffix(path, "/admin") {
		return RateLimitTypeAdmin
	}
	for _, rule := range tierRules {
		if rule.matches(path) {
			return rule.tier
		}
	}
	return RateLimitTypeDefault
}
