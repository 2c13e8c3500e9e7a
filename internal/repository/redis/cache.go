package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/community-engagement/domain"
)

// incrExistingLua 只在 key 已存在时自增, 不存在返回 nil
const incrExistingLua = `
	if redis.call('EXISTS', KEYS[1]) == 0 then
		return false
	end
	return redis.call('INCRBY', KEYS[1], ARGV[1])
`

// incrWindowLua 自增, 并在 key 没有过期时间时开启一个新窗口
const incrWindowLua = `
	local v = redis.call('INCRBY', KEYS[1], ARGV[1])
	if redis.call('PTTL', KEYS[1]) < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	return v
`

var (
	incrExistingScript = redis.NewScript(incrExistingLua)
	incrWindowScript   = redis.NewScript(incrWindowLua)
)

type cache struct {
	client redis.UniversalClient
}

var _ domain.Cache = (*cache)(nil)

// NewCache wraps a go-redis client as a domain.Cache.
func NewCache(client redis.UniversalClient) *cache {
	return &cache{
		client: client,
	}
}

func (c *cache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (c *cache) Increment(ctx context.Context, key string, delta int64) (int64, error) {
	return c.client.IncrBy(ctx, key, delta).Result()
}

func (c *cache) IncrementExisting(ctx context.Context, key string, delta int64) (int64, bool, error) {
	val, err := incrExistingScript.Run(ctx, c.client, []string{key}, delta).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (c *cache) IncrementWindow(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	return incrWindowScript.Run(ctx, c.client, []string{key}, delta, ttl.Milliseconds()).Int64()
}
