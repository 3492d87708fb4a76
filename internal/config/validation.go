package config

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/cachedir/internal/cache"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}
	if g.StoragePath == "" {
		return newFieldError("Global.StoragePath", "不能为空")
	}
	if _, err := logrus.ParseLevel(g.LogLevel); err != nil {
		return newFieldError("Global.LogLevel", fmt.Sprintf("无法解析日志级别 %q", g.LogLevel))
	}
	if g.DirMode.Perm()&0o700 != 0o700 {
		return newFieldError("Global.DirMode", fmt.Sprintf("必须包含属主 rwx 权限，得到 %s", g.DirMode))
	}

	seenNames := map[string]struct{}{}
	for i := range c.Caches {
		name := c.Caches[i].Name
		if name == "" {
			return newFieldError("Cache[].Name", "不能为空")
		}
		if err := cache.ValidName(name); err != nil {
			return fmt.Errorf("%s: %w", cacheField(name, "Name"), err)
		}
		if _, exists := seenNames[name]; exists {
			return newFieldError(cacheField(name, "Name"), "重复")
		}
		seenNames[name] = struct{}{}
	}

	return nil
}
