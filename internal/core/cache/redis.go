package cache

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

var lookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{Namespace: "boxdrop", Name: "cache_lookups_total", Help: "Read cache lookups by result"},
	[]string{"result"}, // hit / miss / error
)

func init() { prometheus.MustRegister(lookups) }

// Cache redis 读缓存；nil *Cache 表示未启用，所有方法直接回源或空操作
type Cache struct {
	RDB    *redis.Client
	Prefix string
	sf     singleflight.Group
}

// New addr 为空时返回 nil（即不启用缓存）
func New(addr, pass string, db int, prefix string) *Cache {
	if addr == "" {
		return nil
	}
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: prefix,
	}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

// GetOrLoad 先读 redis；未命中或 redis 出错时回源，同一 key 的并发回源合并为一次
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	k := c.key(key)
	b, err := c.RDB.Get(ctx, k).Bytes()
	switch {
	case err == nil:
		lookups.WithLabelValues("hit").Inc()
		return b, nil
	case errors.Is(err, redis.Nil):
		lookups.WithLabelValues("miss").Inc()
	default:
		lookups.WithLabelValues("error").Inc()
	}
	v, err, _ := c.sf.Do(k, func() (any, error) {
		b, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.RDB.Set(ctx, k, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Delete 失效；写操作之后调用
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, c.key(k))
	}
	return c.RDB.Del(ctx, full...).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}
