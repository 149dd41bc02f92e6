package eventcache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache remembers processed provider event ids so re-delivered webhooks can
// be dropped before they reach the reconciler. It is best-effort: the
// reconciler's transition table already makes re-application a no-op, this
// just avoids the row lock and the log noise.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(addr, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// MarkProcessed records the event id and reports whether this is the first
// delivery. Errors are returned so callers can decide to fall through to the
// reconciler rather than drop the event.
func (c *Cache) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	return c.client.SetNX(ctx, eventKey(eventID), 1, c.ttl).Result()
}

// Forget removes a marked event id. Called when processing failed after the
// mark, so the provider's redelivery is not dropped as a duplicate.
func (c *Cache) Forget(ctx context.Context, eventID string) error {
	return c.client.Del(ctx, eventKey(eventID)).Err()
}

func eventKey(eventID string) string {
	return fmt.Sprintf("payments:event:%s", eventID)
}

func (c *Cache) Close() error {
	return c.client.Close()
}
