package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdentityCache remembers the display name last used by a client key, so a
// returning client can be offered its previous name. Plain get/set, no
// further contract.
type IdentityCache interface {
	SetName(ctx context.Context, clientKey, name string) error
	GetName(ctx context.Context, clientKey string) (string, error)
}

type identityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentityCache creates a new identity cache
func NewIdentityCache(client *redis.Client) IdentityCache {
	return &identityCache{
		client: client,
		ttl:    30 * 24 * time.Hour,
	}
}

func (c *identityCache) key(clientKey string) string {
	return fmt.Sprintf("identity:%s", clientKey)
}

func (c *identityCache) SetName(ctx context.Context, clientKey, name string) error {
	return c.client.Set(ctx, c.key(clientKey), name, c.ttl).Err()
}

func (c *identityCache) GetName(ctx context.Context, clientKey string) (string, error) {
	name, err := c.client.Get(ctx, c.key(clientKey)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return name, err
}
