package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = time.Hour

// IdempotencyStore maps Idempotency-Key headers to created post ids so that
// retried create requests replay the original result instead of inserting a
// second post. Keys expire after idempotencyTTL.
type IdempotencyStore struct {
	client *redis.Client
}

func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

// Lookup returns the post id previously stored under key.
func (s *IdempotencyStore) Lookup(ctx context.Context, key string) (string, bool, error) {
	postID, err := s.client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return postID, true, nil
}

// Save records the post created under key.
func (s *IdempotencyStore) Save(ctx context.Context, key, postID string) error {
	return s.client.Set(ctx, s.key(key), postID, idempotencyTTL).Err()
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:post:" + key
}
