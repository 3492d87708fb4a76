package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，便于不同入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// DirFields 提供针对单个目录操作的字段，CLI 子命令与命名空间物化共用。
func DirFields(action, dir string) logrus.Fields {
	return logrus.Fields{
		"action": action,
		"dir":    dir,
	}
}

// RequestFields 提供请求 ID/方法/路径/状态字段，供 HTTP 访问日志复用。
func RequestFields(requestID, method, path string, status int) logrus.Fields {
	return logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
		"status":     status,
	}
}
