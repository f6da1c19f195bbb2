package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kochabx/pulse/internal/post"
	"github.com/kochabx/pulse/internal/server/metrics"
	"github.com/kochabx/pulse/internal/server/middleware"
	"github.com/kochabx/pulse/internal/server/ratelimit"
	"github.com/kochabx/pulse/internal/token"
	"github.com/kochabx/pulse/internal/user"
)

const apiPrefix = "/api/v1"

// RouterConfig 路由装配配置
type RouterConfig struct {
	// Mode gin 运行模式: debug/release/test
	Mode string

	Tokens *token.Service
	Users  *user.Handler
	Posts  *post.Handler

	// AuthLimiter 作用于认证入口的限流器，nil 时不限流
	AuthLimiter ratelimit.Limiter
}

// NewRouter 装配全部路由与中间件
//
// 公开路由：注册、登录、刷新令牌、帖子读取；其余路由都在认证守卫之后
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.Cors(),
		middleware.Logger(middleware.LoggerConfig{
			SkipPaths: []string{"/health", "/metrics"},
		}),
		metrics.Prom.Middleware(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Prom.Registry(), promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})))

	api := r.Group(apiPrefix)

	// 仅对认证入口限流
	if cfg.AuthLimiter != nil {
		api.Use(middleware.RateLimit(cfg.AuthLimiter, middleware.RateLimitConfig{
			Paths: []string{
				apiPrefix + "/users/registration",
				apiPrefix + "/users/login",
			},
		}))
	}

	api.Use(middleware.Auth(cfg.Tokens, middleware.AuthConfig{
		SkipPaths: []string{
			apiPrefix + "/users/registration",
			apiPrefix + "/users/login",
			apiPrefix + "/users/*/refresh-token",
		},
		// 帖子读取不需要认证
		SkipFunc: func(c *gin.Context) bool {
			return c.Request.Method == http.MethodGet &&
				strings.HasPrefix(c.Request.URL.Path, apiPrefix+"/posts")
		},
	}))

	cfg.Users.RegisterRoutes(api)
	cfg.Posts.RegisterRoutes(api)

	return r
}
