package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DefaultPath 是未显式指定配置文件时尝试读取的路径。
const DefaultPath = "cachedir.toml"

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。文件必须存在。
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}
	return decode(v)
}

// LoadOrDefault 与 Load 相同，但文件不存在时退回纯默认配置，供一次性 CLI 命令使用。
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		v := viper.New()
		setDefaults(v)
		return decode(v)
	}
	return Load(path)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(fileModeDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absStorage, err := filepath.Abs(cfg.Global.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("无法解析缓存目录: %w", err)
	}
	cfg.Global.StoragePath = absStorage

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 5080)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("StoragePath", "./cache")
	v.SetDefault("DirMode", "0700")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 5080
	}
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
	if g.DirMode == 0 {
		g.DirMode = 0o700
	}
}

func fileModeDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(FileMode(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return parseMode(v)
		case int:
			return intMode(int64(v))
		case int64:
			return intMode(v)
		case uint32:
			return intMode(int64(v))
		case FileMode:
			return v, nil
		default:
			return nil, fmt.Errorf("不支持的 DirMode 类型: %T", v)
		}
	}
}

// intMode 接受 TOML 中的八进制整数字面量（如 0o750）。
func intMode(v int64) (FileMode, error) {
	if v < 0 || v > 0o777 {
		return 0, fmt.Errorf("无法解析 DirMode 字段: %d", v)
	}
	return FileMode(v), nil
}
