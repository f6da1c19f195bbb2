package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kochabx/pulse/internal/server/ratelimit"
	"github.com/kochabx/pulse/internal/server/response"
	"github.com/kochabx/pulse/pkg/errors"
)

// RateLimitConfig 限流中间件配置
type RateLimitConfig struct {
	// Paths 仅对匹配路径限流，为空时对全部请求限流
	Paths []string
}

// RateLimit 创建限流中间件，按客户端 IP 和路由分别计数
func RateLimit(limiter ratelimit.Limiter, cfgs ...RateLimitConfig) gin.HandlerFunc {
	cfg := RateLimitConfig{}
	if len(cfgs) > 0 {
		cfg = cfgs[0]
	}

	matcher := NewPathMatcher(cfg.Paths)

	return func(c *gin.Context) {
		if len(cfg.Paths) > 0 && !matcher.Match(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := c.ClientIP() + ":" + c.FullPath()

		if !limiter.Allow(c.Request.Context(), key) {
			response.JSONE(c, errors.TooManyRequests("too many requests"))
			return
		}

		c.Next()
	}
}
