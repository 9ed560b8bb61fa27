package redis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const lockRetryInterval = 50 * time.Millisecond

// releaseScript deletes the lock only if it still carries our token, so an
// expired lock taken over by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Client struct {
	rdb     *redis.Client
	lockTTL time.Duration
}

func Initialize(redisURL string, lockTTL time.Duration) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb, lockTTL: lockTTL}, nil
}

// Lock takes a distributed lock on key, polling until it is free or ctx is
// done. It satisfies locker.Locker.
func (c *Client) Lock(ctx context.Context, key string) (func(), error) {
	lockKey := "lock:" + key
	token := uuid.NewString()

	for {
		ok, err := c.rdb.SetNX(ctx, lockKey, token, c.lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}

	return func() {
		// Release even if the caller's context is already cancelled.
		if err := releaseScript.Run(context.Background(), c.rdb, []string{lockKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			log.Printf("Warning: failed to release lock %s: %v", key, err)
		}
	}, nil
}

// Packing list document cache
func (c *Client) SetPackingListHTML(ctx context.Context, plNumber, html string, ttl time.Duration) error {
	return c.rdb.Set(ctx, "packing_list:"+plNumber, html, ttl).Err()
}

// GetPackingListHTML reports ok=false on a cache miss.
func (c *Client) GetPackingListHTML(ctx context.Context, plNumber string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, "packing_list:"+plNumber).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get packing list: %w", err)
	}
	return val, true, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
