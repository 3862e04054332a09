package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// GetOrLoadJSON load 返回 (nil, nil) 时不写缓存，避免把"不存在"缓存住
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if v == nil {
			return nil, errMiss
		}
		return json.Marshal(v)
	})
	if errors.Is(err, errMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}

var errMiss = errors.New("cache: loader returned nil")
