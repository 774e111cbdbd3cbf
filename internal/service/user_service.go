package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mini-boxdrop/internal/core/logger"
	"mini-boxdrop/internal/domain"
	"mini-boxdrop/internal/storage"
	"mini-boxdrop/pkg/utils"
)

var (
	ErrInvalidEmail   = fmt.Errorf("%w: invalid email", domain.ErrValidation)
	ErrUserNotCreated = errors.New("user not created")
	ErrUserNotDeleted = errors.New("user not deleted")
)

type UserService struct {
	users    domain.UserRepository
	products domain.ProductRepository
	files    storage.Store
	log      *zap.Logger
}

func NewUserService(users domain.UserRepository, products domain.ProductRepository, files storage.Store, l *zap.Logger) *UserService {
	return &UserService{users: users, products: products, files: files, log: l}
}

// logFor 优先用请求 ctx 上的 logger（带 request_id）
func (s *UserService) logFor(ctx context.Context) *zap.Logger {
	return logger.FromContext(ctx, s.log)
}

// Register 成功返回新用户 id
func (s *UserService) Register(ctx context.Context, in RegisterInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	email := NormalizeEmail(in.Email)
	if !ValidEmail(email) {
		return "", ErrInvalidEmail
	}
	exist, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if exist != nil {
		return "", fmt.Errorf("%w: email already exists", domain.ErrConflict)
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return "", err
	}
	// 回读确认已落库
	got, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if got == nil {
		return "", ErrUserNotCreated
	}
	s.logFor(ctx).Info("user registered", zap.String("user_id", got.ID))
	return got.ID, nil
}

func (s *UserService) Authenticate(ctx context.Context, in LoginInput) (*domain.Profile, error) {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	if !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, domain.ErrAuth
	}
	p := u.Profile()
	return &p, nil
}

func (s *UserService) UpdateSettings(ctx context.Context, in SettingsInput) (*domain.Profile, error) {
	u, err := s.users.FindByEmail(ctx, NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	if !utils.CheckPassword(in.OldPassword, u.PasswordHash) {
		return nil, domain.ErrAuth
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	target := u.Email
	if !blank(in.NewEmail) {
		target = NormalizeEmail(in.NewEmail)
	}
	if !ValidEmail(target) {
		return nil, ErrInvalidEmail
	}
	if target != u.Email {
		other, err := s.users.FindByEmail(ctx, target)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != u.ID {
			return nil, fmt.Errorf("%w: email already exists", domain.ErrConflict)
		}
	}

	u.Name = in.Name
	u.LastName = in.LastName
	u.Email = target
	if in.NewPassword != "" {
		hash, err := utils.HashPassword(in.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	fresh, err := s.users.FindByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	p := fresh.Profile()
	return &p, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	p := u.Profile()
	return &p, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.Profile, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Profile, 0, len(users))
	for i := range users {
		out = append(out, users[i].Profile())
	}
	return out, nil
}

// Delete 先删用户，再逐个删除其产品的文件和记录；文件删除失败只告警。
// 文件存储与数据库之间不是原子的。
func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: user", domain.ErrNotFound)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	still, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if still != nil {
		return ErrUserNotDeleted
	}

	products, err := s.products.ListByOwner(ctx, id)
	if err != nil {
		s.logFor(ctx).Error("cascade: list products failed", zap.String("user_id", id), zap.Error(err))
		return err
	}
	var errs []error
	for _, p := range products {
		removeFileBestEffort(ctx, s.files, s.logFor(ctx), p.FileZipPath)
		if err := s.products.Delete(ctx, p.ID); err != nil {
			s.logFor(ctx).Error("cascade: delete product failed",
				zap.String("user_id", id), zap.String("product_id", p.ID), zap.Error(err))
			errs = append(errs, err)
		}
	}
	s.logFor(ctx).Info("user deleted", zap.String("user_id", id), zap.Int("products", len(products)))
	return errors.Join(errs...)
}
