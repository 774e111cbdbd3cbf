package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"mini-boxdrop/internal/core/cache"
	"mini-boxdrop/internal/core/logger"
	"mini-boxdrop/internal/domain"
)

// CachedProductRepo 按 id 读缓存（read-through），写操作后失效；列表不缓存
type CachedProductRepo struct {
	next  domain.ProductRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedProductRepo(next domain.ProductRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedProductRepo {
	return &CachedProductRepo{next: next, cache: c, ttl: ttl, log: l}
}

func productKey(id string) string { return "product:" + id }

func (r *CachedProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.next.Create(ctx, p)
}

// FindByID 不存在时返回 nil, nil，且不写缓存
func (r *CachedProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return cache.GetOrLoadJSON(r.cache, ctx, productKey(id), r.ttl, func(ctx context.Context) (*domain.Product, error) {
		return r.next.FindByID(ctx, id)
	})
}

func (r *CachedProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.next.List(ctx)
}

func (r *CachedProductRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Product, error) {
	return r.next.ListByOwner(ctx, userID)
}

func (r *CachedProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if err := r.next.Update(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.ID)
	return nil
}

func (r *CachedProductRepo) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedProductRepo) invalidate(ctx context.Context, id string) {
	if err := r.cache.Delete(ctx, productKey(id)); err != nil {
		logger.FromContext(ctx, r.log).Warn("cache invalidate failed", zap.String("product_id", id), zap.Error(err))
	}
}
