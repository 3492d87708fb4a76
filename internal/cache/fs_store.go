package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/any-hub/cachedir/internal/cachedir"
)

// maxNameLength 为命名空间名称长度上限，给暂存目录的后缀留出余量。
const maxNameLength = 200

// NewStore 以 basePath 为根目录构建命名空间存储，根目录本身会被打上标记。
func NewStore(basePath string, perm fs.FileMode) (Store, error) {
	if basePath == "" {
		return nil, errors.New("storage path required")
	}

	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("create storage parent: %w", err)
	}

	created, err := cachedir.MkdirAtomicMode(abs, perm)
	if err != nil {
		return nil, fmt.Errorf("create storage path: %w", err)
	}
	if !created {
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat storage path: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("storage path %s is not a directory", abs)
		}
		if err := cachedir.EnsureTag(abs); err != nil {
			return nil, fmt.Errorf("tag storage path: %w", err)
		}
	}

	return &fileStore{basePath: abs, perm: perm}, nil
}

// fileStore 不持有锁：并发物化由 MkdirAtomicMode 的 rename 语义保证只有一方成功。
type fileStore struct {
	basePath string
	perm     fs.FileMode
}

func (s *fileStore) Root() string {
	return s.basePath
}

func (s *fileStore) Ensure(ctx context.Context, name string) (*Namespace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := s.path(name)
	if err != nil {
		return nil, err
	}

	created, err := cachedir.MkdirAtomicMode(dir, s.perm)
	if err != nil {
		return nil, err
	}
	if created {
		return &Namespace{Name: name, Path: dir, State: cachedir.TagPresent, Created: true}, nil
	}

	state, err := cachedir.GetTagState(dir)
	if err != nil {
		return nil, err
	}
	// 已有但未标记的目录补写标记；内容不符的标记文件保持原样，仅如实上报。
	if state == cachedir.TagAbsent {
		if err := cachedir.EnsureTag(dir); err != nil {
			return nil, err
		}
		if state, err = cachedir.GetTagState(dir); err != nil {
			return nil, err
		}
	}
	return &Namespace{Name: name, Path: dir, State: state}, nil
}

func (s *fileStore) Stat(ctx context.Context, name string) (*Namespace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir, err := s.path(name)
	if err != nil {
		return nil, err
	}

	state, err := cachedir.GetTagState(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Namespace{Name: name, Path: dir, State: state}, nil
}

func (s *fileStore) path(name string) (string, error) {
	if err := ValidName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, name), nil
}

// ValidName 校验命名空间名称：非空、单层路径、不以 "." 开头且长度受限。
func ValidName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > maxNameLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, maxNameLength)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q must not start with a dot", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q must be a single path component", ErrInvalidName, name)
	}
	return nil
}
