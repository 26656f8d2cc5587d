package redisclaim

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ClaimStore hands out short-lived sweep claims via SET NX with a TTL.
// Losing a claim only costs duplicate work; the status guards on orders and
// escrows keep duplicates from double-settling, so a crashed holder simply
// lets the key expire.
type ClaimStore struct {
	client *redis.Client
	prefix string
}

func NewClaimStore(client *redis.Client, prefix string) *ClaimStore {
	return &ClaimStore{client: client, prefix: prefix}
}

// Acquire returns true when this instance won the claim for key.
func (s *ClaimStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key, "1", ttl).Result()
}

func (s *ClaimStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}
