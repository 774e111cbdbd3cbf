package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"mini-boxdrop/internal/storage"
	"mini-boxdrop/pkg/utils"
)

// Upload 一个待保存的上传文件；Filename 只用来取扩展名
type Upload struct {
	Filename string
	Body     io.Reader
}

// saveUpload 生成唯一文件名 + 原扩展名后写入文件存储，返回文件名
func saveUpload(ctx context.Context, files storage.Store, newName func() string, up *Upload) (string, error) {
	name := newName() + utils.FileExt(up.Filename)
	if err := files.Save(ctx, name, up.Body); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return name, nil
}

// removeFileBestEffort 文件存在才删；失败只记 warn，不中断调用方
func removeFileBestEffort(ctx context.Context, files storage.Store, l *zap.Logger, name string) {
	if name == "" {
		return
	}
	ok, err := files.Exists(ctx, name)
	if err != nil {
		l.Warn("error checking file", zap.String("file", name), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if err := files.Remove(ctx, name); err != nil {
		l.Warn("error deleting the file", zap.String("file", name), zap.Error(err))
	}
}
