package ratelimit

import (
	"context"
	_ "embed"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed slidingwindow.lua
var slidingWindowLua string

var slidingWindowScript = redis.NewScript(slidingWindowLua)

// Limiter 限流器契约，key 区分限流对象（客户端 IP、路由等）
type Limiter interface {
	Allow(ctx context.Context, key string) bool
	AllowN(ctx context.Context, key string, t time.Time, n int) bool
}

// SlidingWindowLimiter 基于 Redis 的滑动窗口限流器
// 每个 key 维护一个按时间戳打分的 ZSET，窗口外的记录随请求清理
type SlidingWindowLimiter struct {
	client    redis.UniversalClient
	keyPrefix string
	window    time.Duration
	limit     int
}

// Option 限流器配置选项
type Option func(*SlidingWindowLimiter)

// WithKeyPrefix 设置 Redis key 前缀
func WithKeyPrefix(prefix string) Option {
	return func(l *SlidingWindowLimiter) {
		l.keyPrefix = prefix
	}
}

// NewSlidingWindow 创建滑动窗口限流器
// window 内每个 key 最多放行 limit 次
func NewSlidingWindow(client redis.UniversalClient, window time.Duration, limit int, opts ...Option) *SlidingWindowLimiter {
	l := &SlidingWindowLimiter{
		client: client,
		window: window,
		limit:  limit,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) bool {
	return l.AllowN(ctx, key, time.Now(), 1)
}

// AllowN 尝试一次性获取 n 个配额，Redis 不可用时放行
func (l *SlidingWindowLimiter) AllowN(ctx context.Context, key string, t time.Time, n int) bool {
	windowSeconds := int(l.window / time.Second)
	if windowSeconds < 1 {
		windowSeconds = 1
	}

	result, err := slidingWindowScript.Run(ctx, l.client,
		[]string{l.keyPrefix + key},
		windowSeconds, l.limit, t.Unix(), n,
	).Result()
	if err != nil {
		return true
	}

	allowed, ok := result.(int64)
	return !ok || allowed == 1
}
