package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// errNoValue 回源结果为 nil（记录不存在）；不写缓存
var errNoValue = errors.New("cache: no value")

// GetOrLoadJSON 以 JSON 缓存 *T。load 返回 nil 时直接返回 nil，不做负缓存；
// 缓存内容无法解码时删掉该 key 并回源
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	b, err := c.GetOrLoad(ctx, key, ttl, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, errNoValue
		}
		return json.Marshal(v)
	})
	if errors.Is(err, errNoValue) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		_ = c.Delete(ctx, key)
		return load(ctx)
	}
	return &out, nil
}
