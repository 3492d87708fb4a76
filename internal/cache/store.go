package cache

import (
	"context"
	"errors"

	"github.com/any-hub/cachedir/internal/cachedir"
)

// Store 负责管理缓存命名空间。磁盘布局遵循：
//
//	<StoragePath>/CACHEDIR.TAG           # 根目录标记
//	<StoragePath>/<name>/CACHEDIR.TAG    # 每个命名空间的标记
//
// 暂存目录以 "." 开头，因此命名空间名称不允许以 "." 开头。
type Store interface {
	// Root 返回存储根目录的绝对路径。
	Root() string

	// Ensure 保证命名空间存在且带标记，Created 表示本次调用是否创建了目录。
	Ensure(ctx context.Context, name string) (*Namespace, error)

	// Stat 探测命名空间的标记状态。若不存在则返回 ErrNotFound。
	Stat(ctx context.Context, name string) (*Namespace, error)
}

// Namespace 描述一次命名空间查询或物化的结果。
type Namespace struct {
	Name    string            `json:"name"`
	Path    string            `json:"path"`
	State   cachedir.TagState `json:"-"`
	Created bool              `json:"created"`
}

// Tagged 表示命名空间是否带有正确的 CACHEDIR.TAG。
func (n Namespace) Tagged() bool {
	return n.State == cachedir.TagPresent
}

var (
	// ErrNotFound 表示命名空间不存在。
	ErrNotFound = errors.New("cache namespace not found")
	// ErrInvalidName 表示命名空间名称不合法。
	ErrInvalidName = errors.New("invalid cache namespace name")
)
