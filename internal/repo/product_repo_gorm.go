package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mini-boxdrop/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	ps := make([]domain.Product, 0)
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&ps).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ps, nil
}

func (r *ProductRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Product, error) {
	ps := make([]domain.Product, 0)
	err := r.db.WithContext(ctx).
		Where("id_user = ?", userID).
		Order("created_at asc").
		Find(&ps).Error
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ps, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
