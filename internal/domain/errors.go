package domain

import "errors"

// 业务错误分类，service 层用 fmt.Errorf("%w: ...") 包装，调用方用 errors.Is 判断
var (
	ErrValidation = errors.New("validation error") // 必填缺失 / 格式错误
	ErrConflict   = errors.New("conflict")         // 唯一约束冲突（如邮箱重复）
	ErrAuth       = errors.New("invalid credentials")
	ErrNotFound   = errors.New("not found")
)
