package token

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionCache 会话缓存契约，是"当前有效会话"的唯一事实来源
// 实现必须提供单 key 原子的读写/删除/TTL 语义
type SessionCache interface {
	// SaveRefresh 保存用户当前的 refresh token，已有记录被整体覆盖
	SaveRefresh(ctx context.Context, userID, token string, ttl time.Duration) error

	// GetRefresh 获取用户当前的 refresh token，记录不存在返回 ErrNoSession
	GetRefresh(ctx context.Context, userID string) (string, error)

	// DeleteRefresh 删除用户的 refresh token 记录
	DeleteRefresh(ctx context.Context, userID string) error

	// MarkInvalid 将 access token 标记为已失效
	MarkInvalid(ctx context.Context, token string, ttl time.Duration) error

	// IsInvalid 检查 access token 是否被标记失效
	IsInvalid(ctx context.Context, token string) (bool, error)
}

const invalidMarkerPrefix = "invalid:"

// RedisSessionCache 基于 Redis 的会话缓存
// refresh token 以用户 ID 为 key 存储，失效标记以 token 摘要为 key
// 单点查询，不做全量扫描
type RedisSessionCache struct {
	client    redis.UniversalClient
	keyPrefix string
}

// CacheOption 会话缓存配置选项
type CacheOption func(*RedisSessionCache)

// WithKeyPrefix 设置 Redis key 前缀
func WithKeyPrefix(prefix string) CacheOption {
	return func(c *RedisSessionCache) {
		c.keyPrefix = prefix
	}
}

// NewRedisSessionCache 创建 Redis 会话缓存
func NewRedisSessionCache(client redis.UniversalClient, opts ...CacheOption) *RedisSessionCache {
	cache := &RedisSessionCache{
		client: client,
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// refreshKey 用户 refresh token 的 key
func (c *RedisSessionCache) refreshKey(userID string) string {
	return c.keyPrefix + userID
}

// invalidKey 失效标记的 key，以 token 摘要索引保证单点查询
func (c *RedisSessionCache) invalidKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return c.keyPrefix + invalidMarkerPrefix + hex.EncodeToString(sum[:])
}

func (c *RedisSessionCache) SaveRefresh(ctx context.Context, userID, token string, ttl time.Duration) error {
	// SET 覆盖旧值并重置 TTL，保证单用户单会话
	if err := c.client.Set(ctx, c.refreshKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) GetRefresh(ctx context.Context, userID string) (string, error) {
	value, err := c.client.Get(ctx, c.refreshKey(userID)).Result()
	if err == redis.Nil {
		return "", ErrNoSession
	}
	if err != nil {
		return "", fmt.Errorf("get refresh token: %w", err)
	}
	return value, nil
}

func (c *RedisSessionCache) DeleteRefresh(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.refreshKey(userID)).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) MarkInvalid(ctx context.Context, token string, ttl time.Duration) error {
	// 同一 token 的重复标记由后写覆盖，不报错
	if err := c.client.Set(ctx, c.invalidKey(token), token, ttl).Err(); err != nil {
		return fmt.Errorf("mark token invalid: %w", err)
	}
	return nil
}

func (c *RedisSessionCache) IsInvalid(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, c.invalidKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("check token invalid: %w", err)
	}
	return n > 0, nil
}
