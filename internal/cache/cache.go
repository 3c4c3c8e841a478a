package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"gymtrack/internal/metrics"
)

// Cache is a small JSON cache over redis used for session-history listings.
// Session records are immutable, so entries only need invalidation when a
// new session is recorded for a member.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(redisAddr string, ttl time.Duration) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		ttl: ttl,
	}
}

// NewWithClient wires an existing client, used by tests with redismock.
func NewWithClient(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// GetJSON loads key into dest. The boolean reports a cache hit.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(false)
		return false, nil
	}
	if err != nil {
		metrics.RecordCacheLookup(false)
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		metrics.RecordCacheLookup(false)
		return false, err
	}

	metrics.RecordCacheLookup(true)
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	if !c.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if !c.Enabled() || len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func MemberSessionsKey(memberID int) string {
	return fmt.Sprintf("sessions:member:%d", memberID)
}

func AllSessionsKey() string {
	return "sessions:all"
}
