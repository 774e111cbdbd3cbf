package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mini-boxdrop/internal/core/cache"
	"mini-boxdrop/internal/core/database"
	"mini-boxdrop/internal/domain"
)

func newSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver: "sqlite", DSN: ":memory:",
		MaxOpenConns: 1, MaxIdleConns: 1, LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Product{}))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func TestUserRepo_CRUD(t *testing.T) {
	r := NewUserRepo(newSQLite(t))
	ctx := context.Background()

	got, err := r.FindByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	u := &domain.User{ID: "u1", Name: "Ana", LastName: "Lima", Email: "ana@test.com", PasswordHash: "h"}
	require.NoError(t, r.Create(ctx, u))

	got, err = r.FindByEmail(ctx, "ana@test.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	// 唯一索引兜底：并发注册时后到的一方得到 ErrConflict
	dup := &domain.User{ID: "u2", Name: "X", LastName: "Y", Email: "ana@test.com", PasswordHash: "h"}
	assert.ErrorIs(t, r.Create(ctx, dup), domain.ErrConflict)

	bea := &domain.User{ID: "u4", Name: "Bea", LastName: "Lima", Email: "bea@test.com", PasswordHash: "h"}
	require.NoError(t, r.Create(ctx, bea))
	bea.Email = "ana@test.com"
	assert.ErrorIs(t, r.Update(ctx, bea), domain.ErrConflict)
	require.NoError(t, r.Delete(ctx, "u4"))

	got.Name = "Ana Maria"
	require.NoError(t, r.Update(ctx, got))
	again, err := r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", again.Name)

	require.NoError(t, r.Delete(ctx, "u1"))
	gone, err := r.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, gone)

	// 物理删除：同邮箱可再次注册
	require.NoError(t, r.Create(ctx, &domain.User{ID: "u3", Name: "A", LastName: "B", Email: "ana@test.com", PasswordHash: "h"}))
}

func TestProductRepo_CRUD(t *testing.T) {
	r := NewProductRepo(newSQLite(t))
	ctx := context.Background()

	p1 := &domain.Product{ID: "p1", Name: "A", Description: "d", FileZipPath: "a.zip", UserID: "u1"}
	p2 := &domain.Product{ID: "p2", Name: "B", Description: "d", FileZipPath: "b.zip", UserID: "u2"}
	require.NoError(t, r.Create(ctx, p1))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, r.Create(ctx, p2))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].ID)

	mine, err := r.ListByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "a.zip", mine[0].FileZipPath)

	none, err := r.ListByOwner(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	p1.FileZipPath = "c.zip"
	require.NoError(t, r.Update(ctx, p1))
	got, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "c.zip", got.FileZipPath)

	require.NoError(t, r.Delete(ctx, "p1"))
	got, err = r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepo_WrapsDriverErrors(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	errDown := errors.New("connection refused")
	mock.ExpectQuery(`SELECT .* FROM "users"`).WillReturnError(errDown)
	mock.ExpectQuery(`SELECT .* FROM "products"`).WillReturnError(errDown)

	_, err = NewUserRepo(db).FindByEmail(context.Background(), "a@b.com")
	assert.ErrorIs(t, err, errDown)
	assert.ErrorContains(t, err, "db error")

	_, err = NewProductRepo(db).ListByOwner(context.Background(), "u1")
	assert.ErrorIs(t, err, errDown)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedProductRepo_PassThroughWithoutRedis(t *testing.T) {
	base := NewProductRepo(newSQLite(t))
	r := NewCachedProductRepo(base, nil, time.Minute, zap.NewNop())
	ctx := context.Background()

	got, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, r.Create(ctx, &domain.Product{ID: "p1", Name: "A", Description: "d", FileZipPath: "a.zip", UserID: "u1"}))
	got, err = r.FindByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a.zip", got.FileZipPath)

	got.Name = "B"
	require.NoError(t, r.Update(ctx, got))
	got, err = r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)

	require.NoError(t, r.Delete(ctx, "p1"))
	got, err = r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func newCachedRepo(t *testing.T) (*CachedProductRepo, *ProductRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := cache.New(mr.Addr(), "", 0, "boxdrop:")
	t.Cleanup(func() { _ = rc.Close() })
	base := NewProductRepo(newSQLite(t))
	return NewCachedProductRepo(base, rc, time.Minute, zap.NewNop()), base, mr
}

func TestCachedProductRepo_ReadThroughRedis(t *testing.T) {
	r, base, mr := newCachedRepo(t)
	ctx := context.Background()

	got, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("boxdrop:product:p1"))

	require.NoError(t, r.Create(ctx, &domain.Product{ID: "p1", Name: "A", Description: "d", FileZipPath: "a.zip", UserID: "u1"}))
	got, err = r.FindByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, mr.Exists("boxdrop:product:p1"))

	// 缓存命中：绕过缓存直接改库，读到的仍是缓存里的值
	stale := *got
	stale.FileZipPath = "behind-cache.zip"
	require.NoError(t, base.Update(ctx, &stale))
	cached, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "a.zip", cached.FileZipPath)
	assert.Equal(t, "A", cached.Name)
	assert.Equal(t, "u1", cached.UserID)
	assert.Equal(t, got.CreatedAt.Unix(), cached.CreatedAt.Unix())
}

func TestCachedProductRepo_UpdateInvalidates(t *testing.T) {
	r, _, mr := newCachedRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &domain.Product{ID: "p1", Name: "A", Description: "d", FileZipPath: "a.zip", UserID: "u1"}))

	got, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	require.True(t, mr.Exists("boxdrop:product:p1"))

	got.FileZipPath = "b.zip"
	require.NoError(t, r.Update(ctx, got))
	assert.False(t, mr.Exists("boxdrop:product:p1"))

	got, err = r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "b.zip", got.FileZipPath)
}

func TestCachedProductRepo_DeleteInvalidates(t *testing.T) {
	r, _, mr := newCachedRepo(t)
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, &domain.Product{ID: "p1", Name: "A", Description: "d", FileZipPath: "a.zip", UserID: "u1"}))
	_, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	require.True(t, mr.Exists("boxdrop:product:p1"))

	require.NoError(t, r.Delete(ctx, "p1"))
	assert.False(t, mr.Exists("boxdrop:product:p1"))

	got, err := r.FindByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
