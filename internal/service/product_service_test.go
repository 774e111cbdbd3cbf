package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mini-boxdrop/internal/core/logger"
	"mini-boxdrop/internal/domain"
)

func zipUpload(name string) *Upload {
	return &Upload{Filename: name, Body: strings.NewReader("PK\x03\x04")}
}

func seedOwner(t *testing.T, e *env) string {
	t.Helper()
	return register(t, e.userService(), "owner@test.com")
}

func TestProductCreate(t *testing.T) {
	e := newEnv(t)
	s := e.productService()
	ctx := context.Background()
	owner := seedOwner(t, e)

	p, err := s.Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)
	assert.Equal(t, ".zip", filepath.Ext(p.FileZipPath))
	assert.NotEqual(t, "a.zip", p.FileZipPath)
	assert.True(t, e.exists(t, p.FileZipPath))
	assert.Equal(t, owner, p.UserID)

	list, err := s.ListByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.FileZipPath, got.FileZipPath)
}

func TestProductCreate_UniqueNamesForSameUpload(t *testing.T) {
	e := newEnv(t)
	s := e.productService()
	ctx := context.Background()
	owner := seedOwner(t, e)

	a, err := s.Create(ctx, ProductInput{Name: "A", Description: "d", UserID: owner}, zipUpload("same.zip"))
	require.NoError(t, err)
	b, err := s.Create(ctx, ProductInput{Name: "B", Description: "d", UserID: owner}, zipUpload("same.zip"))
	require.NoError(t, err)
	assert.NotEqual(t, a.FileZipPath, b.FileZipPath)
	assert.True(t, e.exists(t, a.FileZipPath))
	assert.True(t, e.exists(t, b.FileZipPath))
}

func TestProductCreate_Rejects(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := seedOwner(t, e)
	counter := &savedFiles{Store: e.files}
	s := NewProductService(e.products, e.users, counter, e.log)

	for _, in := range []ProductInput{
		{Description: "Y", UserID: owner},
		{Name: "X", UserID: owner},
		{Name: "X", Description: "Y"},
	} {
		_, err := s.Create(ctx, in, zipUpload("a.zip"))
		assert.ErrorIs(t, err, domain.ErrValidation, "%+v", in)
	}

	_, err := s.Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: "ghost"}, zipUpload("a.zip"))
	assert.ErrorIs(t, err, ErrInvalidOwner)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, counter.n)
}

func TestProductCreate_InsertFailureLeavesFile(t *testing.T) {
	e := newEnv(t)
	owner := seedOwner(t, e)
	e.products.createErr = errBoom

	_, err := e.productService().Create(context.Background(), ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	assert.ErrorIs(t, err, errBoom)

	errs := e.logs.FilterLevelExact(zap.ErrorLevel)
	require.Equal(t, 1, errs.Len())
	left, _ := errs.All()[0].ContextMap()["file"].(string)
	assert.True(t, e.exists(t, left))
}

func TestProductCreate_SaveFailure(t *testing.T) {
	e := newEnv(t)
	owner := seedOwner(t, e)
	e.readOnly()

	_, err := e.productService().Create(context.Background(), ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.Error(t, err)
	assert.Empty(t, e.products.byID)
}

func TestProductUpdate_ReplacesFile(t *testing.T) {
	e := newEnv(t)
	s := e.productService()
	ctx := context.Background()
	owner := seedOwner(t, e)

	p, err := s.Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)
	old := p.FileZipPath

	up, err := s.Update(ctx, p.ID, ProductInput{Name: "X2", Description: "Y2", UserID: owner}, zipUpload("b.zip"))
	require.NoError(t, err)
	assert.NotEqual(t, old, up.FileZipPath)
	assert.False(t, e.exists(t, old))
	assert.True(t, e.exists(t, up.FileZipPath))

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "X2", got.Name)
	assert.Equal(t, "Y2", got.Description)
	assert.Equal(t, up.FileZipPath, got.FileZipPath)
}

func TestProductUpdate_WithoutUploadKeepsFile(t *testing.T) {
	e := newEnv(t)
	s := e.productService()
	ctx := context.Background()
	owner := seedOwner(t, e)

	p, err := s.Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)

	up, err := s.Update(ctx, p.ID, ProductInput{Name: "N", Description: "D", UserID: owner}, nil)
	require.NoError(t, err)
	assert.Equal(t, p.FileZipPath, up.FileZipPath)
	assert.True(t, e.exists(t, p.FileZipPath))
	assert.Equal(t, "N", up.Name)
}

func TestProductUpdate_DoesNotReassignOwner(t *testing.T) {
	e := newEnv(t)
	s := e.productService()
	ctx := context.Background()
	owner := seedOwner(t, e)
	other := register(t, e.userService(), "other@test.com")

	p, err := s.Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)
	up, err := s.Update(ctx, p.ID, ProductInput{Name: "X", Description: "Y", UserID: other}, nil)
	require.NoError(t, err)
	assert.Equal(t, owner, up.UserID)
}

func TestProductUpdate_Errors(t *testing.T) {
	e := newEnv(t)
	s := e.productService()
	ctx := context.Background()
	owner := seedOwner(t, e)

	_, err := s.Update(ctx, "missing", ProductInput{Name: "X", Description: "Y", UserID: owner}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, err := s.Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)
	_, err = s.Update(ctx, p.ID, ProductInput{Name: "", Description: "Y", UserID: owner}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	e.products.updateErr = errBoom
	_, err = s.Update(ctx, p.ID, ProductInput{Name: "X", Description: "Y", UserID: owner}, nil)
	assert.ErrorIs(t, err, errBoom)
}

func TestProductUpdate_OldFileRemovalFailureIsWarning(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := seedOwner(t, e)

	p, err := e.productService().Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)

	// 只有旧文件删除会失败：包装一个拒绝 Remove 的存储
	s := NewProductService(e.products, e.users, noRemove{e.files}, e.log)
	up, err := s.Update(ctx, p.ID, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("b.zip"))
	require.NoError(t, err)
	assert.True(t, e.exists(t, p.FileZipPath))
	assert.True(t, e.exists(t, up.FileZipPath))
	assert.Equal(t, 1, e.logs.FilterMessage("error deleting the file").Len())
}

func TestProductDelete(t *testing.T) {
	e := newEnv(t)
	s := e.productService()
	ctx := context.Background()
	owner := seedOwner(t, e)

	p, err := s.Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, p.ID))

	_, err = s.Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, e.exists(t, p.FileZipPath))

	assert.ErrorIs(t, s.Delete(ctx, p.ID), domain.ErrNotFound)
}

func TestProductDelete_FileFailureStillRemovesRow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := seedOwner(t, e)

	p, err := e.productService().Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)

	e.readOnly()
	require.NoError(t, e.productService().Delete(ctx, p.ID))

	_, err = e.productService().Get(ctx, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, e.exists(t, p.FileZipPath))
	warns := e.logs.FilterMessage("error deleting the file").FilterLevelExact(zap.WarnLevel)
	require.Equal(t, 1, warns.Len())
	assert.Equal(t, p.FileZipPath, warns.All()[0].ContextMap()["file"])
}

func TestProductDelete_WarningCarriesRequestID(t *testing.T) {
	e := newEnv(t)
	owner := seedOwner(t, e)
	p, err := e.productService().Create(context.Background(), ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)

	e.readOnly()
	ctx := logger.WithContext(context.Background(), e.log.With(zap.String("request_id", "rid-7")))
	require.NoError(t, e.productService().Delete(ctx, p.ID))

	warns := e.logs.FilterMessage("error deleting the file").FilterLevelExact(zap.WarnLevel)
	require.Equal(t, 1, warns.Len())
	fields := warns.All()[0].ContextMap()
	assert.Equal(t, "rid-7", fields["request_id"])
	assert.Equal(t, p.FileZipPath, fields["file"])
}

func TestProductDelete_MissingFileIsSilent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	owner := seedOwner(t, e)
	s := e.productService()

	p, err := s.Create(ctx, ProductInput{Name: "X", Description: "Y", UserID: owner}, zipUpload("a.zip"))
	require.NoError(t, err)
	require.NoError(t, e.fs.Remove(p.FileZipPath))

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.Equal(t, 0, e.logs.FilterLevelExact(zap.WarnLevel).Len())
}
