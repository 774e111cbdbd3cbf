package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

// LocalStore 上传目录；fs 已经是以上传目录为根的文件系统
type LocalStore struct {
	fs afero.Fs
}

// NewLocalStore 目录不存在时自动创建
func NewLocalStore(dir string) (*LocalStore, error) {
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &LocalStore{fs: afero.NewBasePathFs(osFs, dir)}, nil
}

// NewLocalStoreFs 测试或自定义后端用
func NewLocalStoreFs(fs afero.Fs) *LocalStore { return &LocalStore{fs: fs} }

func (s *LocalStore) Save(_ context.Context, name string, r io.Reader) (err error) {
	defer func() { observe("local", "save", err) }()
	if !validName(name) {
		return ErrInvalidName
	}
	f, err := s.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(name)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err = f.Close(); err != nil {
		_ = s.fs.Remove(name)
		return fmt.Errorf("close %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) Remove(_ context.Context, name string) (err error) {
	defer func() { observe("local", "remove", err) }()
	if !validName(name) {
		return ErrInvalidName
	}
	if err = s.fs.Remove(name); err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) Exists(_ context.Context, name string) (bool, error) {
	if !validName(name) {
		return false, ErrInvalidName
	}
	_, err := s.fs.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", name, err)
}
