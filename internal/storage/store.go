// Package storage 上传文件的持久化（本地目录或 S3 兼容对象存储）
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidName = errors.New("storage: invalid file name")

// Store 按生成的文件名保存 / 删除 / 探测文件
type Store interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Remove(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// validName 只接受单段文件名
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		if r == '/' || r == '\\' || r == 0 {
			return false
		}
	}
	return true
}
