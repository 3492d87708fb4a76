package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

var repoRoot string

func init() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return
	}
	dir := filepath.Dir(file)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			repoRoot = dir
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func projectRoot(t *testing.T) string {
	t.Helper()
	if repoRoot == "" {
		t.Fatal("无法定位项目根目录")
	}
	return repoRoot
}

func configFixture(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(projectRoot(t), "internal", "config", "testdata", name)
}

// isolateConfig 让子命令在不含 cachedir.toml 的目录中运行，且不受外部 CACHEDIR_CONFIG 影响。
func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv(configEnv, "")
	chdir(t, t.TempDir())
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "cachedir.toml")
	if err := writeFile(file, strings.TrimSpace(content)); err != nil {
		t.Fatalf("写入配置失败: %v", err)
	}
	return file
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o600)
}

// chdir 等价于 Go 1.24 的 t.Chdir：切换工作目录并在测试结束时恢复。
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
