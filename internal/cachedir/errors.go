package cachedir

import (
	"errors"
	"io/fs"
)

// ErrorKind 对 I/O 错误做粗粒度分类，供 CLI/HTTP 层映射退出码与状态码。
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindNotFound
	KindAlreadyExists
	KindPermission
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindPermission:
		return "permission_denied"
	default:
		return "io_error"
	}
}

// Classify 返回 err 所属的错误类别；nil 视为 KindOther。
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindOther
	case errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, fs.ErrExist):
		return KindAlreadyExists
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	default:
		return KindOther
	}
}
