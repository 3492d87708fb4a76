//go:build linux

package cachedir

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// renameNoReplace 使用 renameat2(RENAME_NOREPLACE)，目标存在时以 EEXIST 失败；
// 内核或文件系统不支持该标志时退回 os.Rename。
func renameNoReplace(oldpath, newpath string) error {
	err := unix.Renameat2(unix.AT_FDCWD, oldpath, unix.AT_FDCWD, newpath, unix.RENAME_NOREPLACE)
	if err == nil {
		return nil
	}
	if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EINVAL) {
		return os.Rename(oldpath, newpath)
	}
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: err}
}
