package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mini-boxdrop/internal/core/logger"
	"mini-boxdrop/internal/domain"
	"mini-boxdrop/internal/storage"
	"mini-boxdrop/pkg/utils"
)

var ErrInvalidOwner = fmt.Errorf("%w: owner", domain.ErrNotFound)

// ProductService 维护产品记录与其上传文件的一致性：
// file_zip_path 非空时，文件存储中一定有同名文件。
type ProductService struct {
	products domain.ProductRepository
	users    domain.UserRepository
	files    storage.Store
	newName  func() string
	log      *zap.Logger
}

func NewProductService(products domain.ProductRepository, users domain.UserRepository, files storage.Store, l *zap.Logger) *ProductService {
	return &ProductService{
		products: products,
		users:    users,
		files:    files,
		newName:  utils.NewFileName,
		log:      l,
	}
}

// logFor 优先用请求 ctx 上的 logger（带 request_id）
func (s *ProductService) logFor(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, s.log)
}

// Create 先写文件再插入记录；插入失败时文件会残留（已知缺口，记录日志）
func (s *ProductService) Create(ctx context.Context, in ProductInput, up *Upload) (*domain.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if up == nil || up.Body == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrValidation)
	}
	owner, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, ErrInvalidOwner
	}

	name, err := saveUpload(ctx, s.files, s.newName, up)
	if err != nil {
		return nil, err
	}
	p := &domain.Product{
		ID:          utils.NewID(),
		Name:        in.Name,
		Description: in.Description,
		FileZipPath: name,
		UserID:      owner.ID,
	}
	if err := s.products.Create(ctx, p); err != nil {
		s.logFor(ctx).Error("product insert failed, file left in store",
			zap.String("file", name), zap.Error(err))
		return nil, err
	}
	s.logFor(ctx).Info("product created", zap.String("product_id", p.ID), zap.String("file", name))
	return p, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product", domain.ErrNotFound)
	}
	return p, nil
}

func (s *ProductService) ListAll(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *ProductService) ListByOwner(ctx context.Context, userID string) ([]domain.Product, error) {
	return s.products.ListByOwner(ctx, userID)
}

// Update 有新文件时：先保存新文件，再删除旧文件（存在才删），最后更新记录。
// 不会出现新旧文件都不存在的窗口。
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput, up *Upload) (*domain.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product", domain.ErrNotFound)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	if up != nil && up.Body != nil {
		old := p.FileZipPath
		name, err := saveUpload(ctx, s.files, s.newName, up)
		if err != nil {
			return nil, err
		}
		removeFileBestEffort(ctx, s.files, s.logFor(ctx), old)
		p.FileZipPath = name
	}
	p.Name = in.Name
	p.Description = in.Description

	if err := s.products.Update(ctx, p); err != nil {
		s.logFor(ctx).Error("product update failed after file swap",
			zap.String("product_id", p.ID), zap.String("file", p.FileZipPath), zap.Error(err))
		return nil, err
	}
	return p, nil
}

// Delete 先删文件（失败只告警），再删记录
func (s *ProductService) Delete(ctx context.Context, id string) error {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: product", domain.ErrNotFound)
	}
	removeFileBestEffort(ctx, s.files, s.logFor(ctx), p.FileZipPath)
	if err := s.products.Delete(ctx, p.ID); err != nil {
		return err
	}
	s.logFor(ctx).Info("product deleted", zap.String("product_id", p.ID))
	return nil
}
