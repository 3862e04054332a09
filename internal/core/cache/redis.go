package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: "syriazone:",
	}
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

func (c *Cache) key(k string) string { return c.Prefix + k }

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	k := c.key(key)
	// 先读缓存；redis 不可用时直接回源
	if b, err := c.RDB.Get(ctx, k).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(k, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, k, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate 写路径调用，删除失败只影响新鲜度
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.RDB.Del(ctx, full...).Err()
}
