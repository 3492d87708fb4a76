//go:build !linux

package cachedir

import "os"

// renameNoReplace 依赖 os.Rename：目标为非空目录（已带标记）时 rename 会失败。
func renameNoReplace(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}
