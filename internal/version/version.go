package version

import "fmt"

// Version/Commit 可在构建时通过 -ldflags 注入，默认使用开发占位符。
var (
	Version = "0.3.0"
	Commit  = "dev"
)

// Full 返回便于 CLI 与 HTTP 诊断接口输出的完整版本信息。
func Full() string {
	return fmt.Sprintf("cachedir %s (%s)", Version, Commit)
}
