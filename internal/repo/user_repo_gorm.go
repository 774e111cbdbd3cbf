package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mini-boxdrop/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// writeErr 唯一索引冲突（并发注册 / 改邮箱）映射为 ErrConflict
func writeErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: email already exists", domain.ErrConflict)
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return writeErr(err)
	}
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	users := make([]domain.User, 0)
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return writeErr(err)
	}
	return nil
}

// Delete 物理删除；级联由 service 负责
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{}).Error; err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
