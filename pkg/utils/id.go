package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// NewID 行主键（UUID 字符串）
func NewID() string { return uuid.NewString() }

// NewFileName 上传文件的随机基名：不含路径分隔符，与客户端文件名无关
func NewFileName() string { return uuid.NewString() }

// FileExt 取原文件名的扩展名（带点），只保留 ASCII 字母数字；没有则返回 ""
func FileExt(name string) string {
	ext := filepath.Ext(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if ext == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}
