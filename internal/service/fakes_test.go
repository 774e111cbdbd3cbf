package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mini-boxdrop/internal/domain"
	"mini-boxdrop/internal/storage"
)

type fakeUsers struct {
	byID      map[string]domain.User
	createErr error
	// deleteNoop 模拟删除未生效
	deleteNoop bool
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[string]domain.User{}} }

func (f *fakeUsers) Create(_ context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) List(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(f.byID))
	for _, u := range f.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeUsers) Update(_ context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now()
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if !f.deleteNoop {
		delete(f.byID, id)
	}
	return nil
}

type fakeProducts struct {
	byID      map[string]domain.Product
	createErr error
	updateErr error
}

func newFakeProducts() *fakeProducts { return &fakeProducts{byID: map[string]domain.Product{}} }

func (f *fakeProducts) Create(_ context.Context, p *domain.Product) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[p.ID] = *p
	return nil
}

func (f *fakeProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProducts) List(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(f.byID))
	for _, p := range f.byID {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) ListByOwner(_ context.Context, userID string) ([]domain.Product, error) {
	out := make([]domain.Product, 0)
	for _, p := range f.byID {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Update(_ context.Context, p *domain.Product) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.byID[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

var errBoom = errors.New("boom")

type env struct {
	users    *fakeUsers
	products *fakeProducts
	fs       afero.Fs
	files    *storage.LocalStore
	logs     *observer.ObservedLogs
	log      *zap.Logger
}

func newEnv(t *testing.T) *env {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	fs := afero.NewMemMapFs()
	return &env{
		users:    newFakeUsers(),
		products: newFakeProducts(),
		fs:       fs,
		files:    storage.NewLocalStoreFs(fs),
		logs:     logs,
		log:      zap.New(core),
	}
}

// readOnly 之后文件删除都会失败
func (e *env) readOnly() {
	e.files = storage.NewLocalStoreFs(afero.NewReadOnlyFs(e.fs))
}

func (e *env) userService() *UserService {
	return NewUserService(e.users, e.products, e.files, e.log)
}

func (e *env) productService() *ProductService {
	return NewProductService(e.products, e.users, e.files, e.log)
}

func (e *env) exists(t *testing.T, name string) bool {
	t.Helper()
	ok, err := afero.Exists(e.fs, name)
	if err != nil {
		t.Fatalf("afero.Exists: %v", err)
	}
	return ok
}

// noRemove 删除总是失败的存储
type noRemove struct{ storage.Store }

func (noRemove) Remove(context.Context, string) error { return errBoom }

// savedFiles 统计成功写入的次数
type savedFiles struct {
	storage.Store
	n int
}

func (s *savedFiles) Save(ctx context.Context, name string, r io.Reader) error {
	if err := s.Store.Save(ctx, name, r); err != nil {
		return err
	}
	s.n++
	return nil
}
