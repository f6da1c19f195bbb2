package post

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) redis.UniversalClient {
	t.Helper()

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{"localhost:6379"},
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Skipping test (Redis not available): %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func newTestReactionStore(t *testing.T) (*RedisReactionStore, redis.UniversalClient) {
	t.Helper()
	client := newTestRedis(t)
	return NewRedisReactionStore(client, WithReactionKeyPrefix("test:reaction:")), client
}

func cleanupReactions(t *testing.T, store *RedisReactionStore, client redis.UniversalClient, postID uuid.UUID, users ...uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	t.Cleanup(func() {
		store.Clear(ctx, postID)
		for _, u := range users {
			client.Del(ctx,
				store.memberKey(DirectionLike, u),
				store.memberKey(DirectionDislike, u),
			)
		}
	})
}

// TestRedisReactionStoreReact 测试表态计数与去重
func TestRedisReactionStoreReact(t *testing.T) {
	ctx := context.Background()
	store, client := newTestReactionStore(t)

	postID := uuid.New()
	userID := uuid.New()
	cleanupReactions(t, store, client, postID, userID)

	counts, err := store.Counts(ctx, postID)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Likes != 0 || counts.Dislikes != 0 {
		t.Errorf("Expected zero counts, got %+v", counts)
	}

	if err := store.React(ctx, postID, userID, DirectionLike); err != nil {
		t.Fatalf("React failed: %v", err)
	}

	counts, err = store.Counts(ctx, postID)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Likes != 1 {
		t.Errorf("Expected 1 like, got %d", counts.Likes)
	}

	// 同方向重复表态
	if err := store.React(ctx, postID, userID, DirectionLike); !errors.Is(err, ErrAlreadyReacted) {
		t.Errorf("Expected ErrAlreadyReacted, got %v", err)
	}
}

// TestRedisReactionStoreSwitch 测试换方向表态撤销旧票
func TestRedisReactionStoreSwitch(t *testing.T) {
	ctx := context.Background()
	store, client := newTestReactionStore(t)

	postID := uuid.New()
	userID := uuid.New()
	cleanupReactions(t, store, client, postID, userID)

	if err := store.React(ctx, postID, userID, DirectionLike); err != nil {
		t.Fatalf("React failed: %v", err)
	}
	if err := store.React(ctx, postID, userID, DirectionDislike); err != nil {
		t.Fatalf("React failed: %v", err)
	}

	counts, err := store.Counts(ctx, postID)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Likes != 0 || counts.Dislikes != 1 {
		t.Errorf("Expected 0 likes / 1 dislike, got %+v", counts)
	}
}

// TestRedisReactionStoreClear 测试清除计数
func TestRedisReactionStoreClear(t *testing.T) {
	ctx := context.Background()
	store, client := newTestReactionStore(t)

	postID := uuid.New()
	userID := uuid.New()
	cleanupReactions(t, store, client, postID, userID)

	if err := store.React(ctx, postID, userID, DirectionLike); err != nil {
		t.Fatalf("React failed: %v", err)
	}
	if err := store.Clear(ctx, postID); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	counts, err := store.Counts(ctx, postID)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Likes != 0 {
		t.Errorf("Expected counts cleared, got %+v", counts)
	}
}
