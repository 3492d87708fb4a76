package cachedir

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultDirMode 是 MkdirAtomic 新建目录的权限（受 umask 影响）。
const DefaultDirMode fs.FileMode = 0o700

// maxStagingBase 限制暂存目录名中保留的目标名长度，避免超出 NAME_MAX。
const maxStagingBase = 200

// publish 执行暂存目录到目标路径的单次原子 rename，测试可替换。
var publish = renameNoReplace

// MkdirAtomic 以 DefaultDirMode 调用 MkdirAtomicMode。
func MkdirAtomic(directory string) (bool, error) {
	return MkdirAtomicMode(directory, DefaultDirMode)
}

// MkdirAtomicMode 创建带 CACHEDIR.TAG 的 directory，并保证该路径一旦可见即已带标记。
//
// 目录先在同一父目录下以 ".<name>.<uuid>" 暂存并写入标记，再通过一次 rename 发布。
// 返回 true 表示本次调用创建了目录；目标已存在（任何类型）或在并发竞争中被他人抢先
// 创建为目录时返回 false 且不报错。已存在的目标既不检查也不修改，其标记状态由调用方
// 负责。未能发布时暂存目录总会被清理。
func MkdirAtomicMode(directory string, perm fs.FileMode) (bool, error) {
	if _, err := os.Lstat(directory); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	target, err := filepath.Abs(directory)
	if err != nil {
		return false, err
	}

	staging := filepath.Join(filepath.Dir(target), stagingName(filepath.Base(target)))
	if err := os.Mkdir(staging, perm); err != nil {
		return false, err
	}
	published := false
	defer func() {
		if !published {
			_ = os.RemoveAll(staging)
		}
	}()

	if err := AddTag(staging); err != nil {
		return false, err
	}

	if err := publish(staging, target); err != nil {
		if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
			return false, nil
		}
		return false, err
	}
	published = true
	return true, nil
}

func stagingName(base string) string {
	if len(base) > maxStagingBase {
		base = base[:maxStagingBase]
	}
	return "." + base + "." + uuid.NewString()
}
