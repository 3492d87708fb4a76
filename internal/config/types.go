package config

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// FileMode 提供更灵活的反序列化能力，同时兼容八进制字符串（"0700"、"0o750"）与整数。
type FileMode fs.FileMode

// UnmarshalText 使 Viper 可以识别 "0700" 这类八进制写法。
func (m *FileMode) UnmarshalText(text []byte) error {
	parsed, err := parseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Perm 返回真实的 fs.FileMode，便于调用方直接传给 os.Mkdir。
func (m FileMode) Perm() fs.FileMode {
	return fs.FileMode(m).Perm()
}

func (m FileMode) String() string {
	return fmt.Sprintf("%#o", uint32(m.Perm()))
}

// parseMode 以八进制解析权限字符串，允许 0o 前缀。
func parseMode(raw string) (FileMode, error) {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(strings.TrimPrefix(value, "0o"), "0O")
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(value, 8, 32)
	if err != nil || parsed > 0o777 {
		return 0, fmt.Errorf("invalid file mode value: %s", raw)
	}
	return FileMode(parsed), nil
}

// GlobalConfig 描述全局运行时行为，CLI 与 HTTP 服务共享同一份参数。
type GlobalConfig struct {
	ListenPort    int      `mapstructure:"ListenPort"`
	LogLevel      string   `mapstructure:"LogLevel"`
	LogFilePath   string   `mapstructure:"LogFilePath"`
	LogMaxSize    int      `mapstructure:"LogMaxSize"`
	LogMaxBackups int      `mapstructure:"LogMaxBackups"`
	LogCompress   bool     `mapstructure:"LogCompress"`
	StoragePath   string   `mapstructure:"StoragePath"`
	DirMode       FileMode `mapstructure:"DirMode"`
}

// CacheConfig 声明一个在服务启动时即需物化的缓存命名空间。
type CacheConfig struct {
	Name string `mapstructure:"Name"`
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig  `mapstructure:",squash"`
	Caches []CacheConfig `mapstructure:"Cache"`
}

// CacheNames 返回所有预声明缓存的名称，供日志字段使用。
func CacheNames(caches []CacheConfig) []string {
	if len(caches) == 0 {
		return nil
	}
	result := make([]string, len(caches))
	for i, c := range caches {
		result[i] = c.Name
	}
	return result
}
