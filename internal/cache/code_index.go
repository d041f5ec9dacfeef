package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeIndex tracks which room codes are taken so code generation can detect
// collisions without a round-trip to the primary store.
type CodeIndex interface {
	// Reserve claims a code, reporting false when it is already taken.
	Reserve(ctx context.Context, code string) (bool, error)
	Exists(ctx context.Context, code string) (bool, error)
	Release(ctx context.Context, code string) error
}

type codeIndex struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCodeIndex creates a new room-code index
func NewCodeIndex(client *redis.Client) CodeIndex {
	return &codeIndex{
		client: client,
		ttl:    24 * time.Hour, // Rooms expire after 24h
	}
}

func (c *codeIndex) key(code string) string {
	return fmt.Sprintf("room:%s:code", code)
}

func (c *codeIndex) Reserve(ctx context.Context, code string) (bool, error) {
	return c.client.SetNX(ctx, c.key(code), 1, c.ttl).Result()
}

func (c *codeIndex) Exists(ctx context.Context, code string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(code)).Result()
	return n > 0, err
}

func (c *codeIndex) Release(ctx context.Context, code string) error {
	return c.client.Del(ctx, c.key(code)).Err()
}
