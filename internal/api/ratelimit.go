package api

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ipRateLimiter 按客户端 IP 维护令牌桶，用于公共端点的滥用防护
type ipRateLimiter struct {
	perMinute int

	mu       sync.Mutex
	limiters map[string]*ipLimiterEntry
}

type ipLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

const ipLimiterTTL = 10 * time.Minute

func newIPRateLimiter(perMinute int) *ipRateLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	return &ipRateLimiter{
		perMinute: perMinute,
		limiters:  make(map[string]*ipLimiterEntry),
	}
}

func (rl *ipRateLimiter) allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[ip]
	if !exists {
		entry = &ipLimiterEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.perMinute),
		}
		rl.limiters[ip] = entry
	}
	entry.lastAccess = now

	// 顺带清理长时间未访问的 IP，避免 map 无限增长
	if len(rl.limiters) > 1024 {
		for key, stale := range rl.limiters {
			if now.Sub(stale.lastAccess) > ipLimiterTTL {
				delete(rl.limiters, key)
			}
		}
	}

	return entry.limiter.Allow()
}

// LoginRateLimit 登录端点限流
func (h *HTTPHandler) LoginRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(h.loginLimiter)
}

// SubmitRateLimit 开号申请端点限流
func (h *HTTPHandler) SubmitRateLimit() gin.HandlerFunc {
	return RateLimitMiddleware(h.submitLimiter)
}

// RateLimitMiddleware 公共端点限流中间件
func RateLimitMiddleware(rl *ipRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			logrus.WithField("ip", c.ClientIP()).Warn("rate limit exceeded")
			c.AbortWithStatusJSON(429, APIError{
				Code:      ErrCodeRateLimited,
				Message:   "请求过于频繁，请稍后再试",
				RequestID: RequestID(c),
			})
			return
		}
		c.Next()
	}
}
