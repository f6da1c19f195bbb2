package post

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Direction 表态方向
type Direction string

const (
	// DirectionLike 点赞
	DirectionLike Direction = "like"
	// DirectionDislike 点踩
	DirectionDislike Direction = "dislike"
)

// opposite 相反方向
func (d Direction) opposite() Direction {
	if d == DirectionLike {
		return DirectionDislike
	}
	return DirectionLike
}

// ReactionStore 帖子表态存储契约
// 计数与成员关系必须保持一致：同一用户对同一帖子同一方向最多一票，
// 新方向的表态会撤销相反方向的旧表态
type ReactionStore interface {
	// React 为帖子投出一票，重复表态返回 ErrAlreadyReacted
	React(ctx context.Context, postID, userID uuid.UUID, dir Direction) error

	// Counts 获取帖子的点赞/点踩计数
	Counts(ctx context.Context, postID uuid.UUID) (*Reactions, error)

	// Clear 清除帖子的计数记录
	Clear(ctx context.Context, postID uuid.UUID) error
}

// RedisReactionStore 基于 Redis 的表态存储
// 每个方向两类 key：帖子维度的计数器和用户维度的已表态集合
type RedisReactionStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// ReactionOption 表态存储配置选项
type ReactionOption func(*RedisReactionStore)

// WithReactionKeyPrefix 设置 Redis key 前缀
func WithReactionKeyPrefix(prefix string) ReactionOption {
	return func(s *RedisReactionStore) {
		s.keyPrefix = prefix
	}
}

// NewRedisReactionStore 创建表态存储
func NewRedisReactionStore(client redis.UniversalClient, opts ...ReactionOption) *RedisReactionStore {
	store := &RedisReactionStore{
		client: client,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// counterKey 帖子计数器 key
func (s *RedisReactionStore) counterKey(dir Direction, postID uuid.UUID) string {
	return s.keyPrefix + string(dir) + ":post:" + postID.String()
}

// memberKey 用户已表态集合 key
func (s *RedisReactionStore) memberKey(dir Direction, userID uuid.UUID) string {
	return s.keyPrefix + string(dir) + ":user:" + userID.String()
}

func (s *RedisReactionStore) React(ctx context.Context, postID, userID uuid.UUID, dir Direction) error {
	member := postID.String()

	reacted, err := s.client.SIsMember(ctx, s.memberKey(dir, userID), member).Result()
	if err != nil {
		return fmt.Errorf("check reaction: %w", err)
	}
	if reacted {
		return ErrAlreadyReacted
	}

	opposed, err := s.client.SIsMember(ctx, s.memberKey(dir.opposite(), userID), member).Result()
	if err != nil {
		return fmt.Errorf("check opposite reaction: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		// 换方向表态先撤销旧票
		if opposed {
			pipe.SRem(ctx, s.memberKey(dir.opposite(), userID), member)
			pipe.Decr(ctx, s.counterKey(dir.opposite(), postID))
		}
		pipe.SAdd(ctx, s.memberKey(dir, userID), member)
		pipe.Incr(ctx, s.counterKey(dir, postID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("save reaction: %w", err)
	}
	return nil
}

func (s *RedisReactionStore) Counts(ctx context.Context, postID uuid.UUID) (*Reactions, error) {
	values, err := s.client.MGet(ctx,
		s.counterKey(DirectionLike, postID),
		s.counterKey(DirectionDislike, postID),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("get reaction counts: %w", err)
	}

	counts := &Reactions{}
	counts.Likes = parseCount(values[0])
	counts.Dislikes = parseCount(values[1])
	return counts, nil
}

func (s *RedisReactionStore) Clear(ctx context.Context, postID uuid.UUID) error {
	err := s.client.Del(ctx,
		s.counterKey(DirectionLike, postID),
		s.counterKey(DirectionDislike, postID),
	).Err()
	if err != nil {
		return fmt.Errorf("clear reaction counts: %w", err)
	}
	return nil
}

// parseCount MGet 返回的计数值，缺失按 0 处理
func parseCount(value any) int64 {
	s, ok := value.(string)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
