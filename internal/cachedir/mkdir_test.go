package cachedir

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestMkdirAtomicConcurrentCallers(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "cache")

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			ok, err := MkdirAtomic(target)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			if ok {
				created++
			}
		}()
	}
	close(start)
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("并发调用不应报错: %v", errs)
	}
	if created != 1 {
		t.Fatalf("expected exactly one creator, got %d", created)
	}
	tagged, err := IsTagged(target)
	if err != nil || !tagged {
		t.Fatalf("target should be tagged, tagged=%v err=%v", tagged, err)
	}
	assertEntries(t, parent, "cache")
}

func TestMkdirAtomicCreatesTaggedDirectory(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "build-cache")

	created, err := MkdirAtomic(target)
	if err != nil || !created {
		t.Fatalf("expected creation, created=%v err=%v", created, err)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Fatalf("target should be a directory: %v", err)
	}
	state, err := GetTagState(target)
	if err != nil || state != TagPresent {
		t.Fatalf("expected present, got %s (%v)", state, err)
	}

	created, err = MkdirAtomic(target)
	if err != nil || created {
		t.Fatalf("second call should report not created, created=%v err=%v", created, err)
	}
}

func TestMkdirAtomicLeavesExistingEntriesAlone(t *testing.T) {
	parent := t.TempDir()

	file := filepath.Join(parent, "file")
	if err := os.WriteFile(file, []byte("keep"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	plain := filepath.Join(parent, "plain")
	if err := os.Mkdir(plain, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	dangling := filepath.Join(parent, "dangling")
	if err := os.Symlink(filepath.Join(parent, "nowhere"), dangling); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	for _, path := range []string{file, plain, dangling} {
		created, err := MkdirAtomic(path)
		if err != nil || created {
			t.Fatalf("%s: existing entry must yield false, created=%v err=%v", path, created, err)
		}
	}

	content, err := os.ReadFile(file)
	if err != nil || string(content) != "keep" {
		t.Fatalf("文件内容不应被修改: %q (%v)", content, err)
	}
	if state, err := GetTagState(plain); err != nil || state != TagAbsent {
		t.Fatalf("已存在目录不应被打标记: %s (%v)", state, err)
	}
	assertEntries(t, parent, "dangling", "file", "plain")
}

func TestMkdirAtomicResolvesRelativePaths(t *testing.T) {
	parent := t.TempDir()
	chdir(t, parent)

	created, err := MkdirAtomic("relative")
	if err != nil || !created {
		t.Fatalf("expected creation, created=%v err=%v", created, err)
	}
	tagged, err := IsTagged(filepath.Join(parent, "relative"))
	if err != nil || !tagged {
		t.Fatalf("relative target should be tagged, tagged=%v err=%v", tagged, err)
	}
	assertEntries(t, parent, "relative")
}

func TestMkdirAtomicMissingParent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "missing", "cache")

	created, err := MkdirAtomic(target)
	if err == nil || created {
		t.Fatalf("父目录缺失时应失败, created=%v err=%v", created, err)
	}
	if Classify(err) != KindNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestMkdirAtomicLostRaceReturnsFalse(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "cache")

	swapPublish(t, func(oldpath, newpath string) error {
		if err := os.Mkdir(newpath, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(newpath, "winner"), nil, 0o644); err != nil {
			return err
		}
		return renameNoReplace(oldpath, newpath)
	})

	created, err := MkdirAtomic(target)
	if err != nil || created {
		t.Fatalf("lost race should be benign, created=%v err=%v", created, err)
	}
	assertEntries(t, parent, "cache")
}

func TestMkdirAtomicRenameFailureCleansUp(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "cache")
	boom := errors.New("rename failed")

	var staged string
	swapPublish(t, func(oldpath, newpath string) error {
		staged = oldpath
		return boom
	})

	created, err := MkdirAtomic(target)
	if !errors.Is(err, boom) || created {
		t.Fatalf("expected rename error, created=%v err=%v", created, err)
	}
	if !strings.HasPrefix(filepath.Base(staged), ".cache.") {
		t.Fatalf("unexpected staging name %s", staged)
	}
	if filepath.Dir(staged) != parent {
		t.Fatalf("暂存目录应位于目标的父目录中，得到 %s", staged)
	}
	assertEntries(t, parent)
}

func TestStagingNameIsBounded(t *testing.T) {
	long := strings.Repeat("x", 255)
	name := stagingName(long)
	if len(name) > 255 {
		t.Fatalf("staging name too long: %d", len(name))
	}
	if stagingName("cache") == stagingName("cache") {
		t.Fatalf("staging names must be unique")
	}
}

func swapPublish(t *testing.T, fn func(oldpath, newpath string) error) {
	t.Helper()
	prev := publish
	publish = fn
	t.Cleanup(func() { publish = prev })
}

func assertEntries(t *testing.T, dir string, want ...string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	got := make([]string, 0, len(entries))
	for _, entry := range entries {
		got = append(got, entry.Name())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected entries in %s: %v (want %v)", dir, got, want)
	}
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
