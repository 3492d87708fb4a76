package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/any-hub/cachedir/internal/cachedir"
	"github.com/any-hub/cachedir/internal/config"
	"github.com/any-hub/cachedir/internal/logging"
)

// dirCommands 是接受单个 DIRECTORY 参数的子命令。
var dirCommands = map[string]func(dir string) (int, string){
	"is-tagged": isTaggedCommand,
	"state":     stateCommand,
	"tag":       tagCommand,
	"ensure":    ensureCommand,
	"mkdir":     mkdirCommand,
}

func isTaggedCommand(dir string) (int, string) {
	tagged, err := cachedir.IsTagged(dir)
	if err != nil {
		return 2, err.Error()
	}
	if tagged {
		return 0, fmt.Sprintf("%s is tagged with CACHEDIR.TAG", dir)
	}
	return 1, fmt.Sprintf("%s is not tagged with CACHEDIR.TAG", dir)
}

func stateCommand(dir string) (int, string) {
	state, err := cachedir.GetTagState(dir)
	if err != nil {
		return 2, err.Error()
	}
	return 0, fmt.Sprintf("%s: %s", dir, state)
}

func tagCommand(dir string) (int, string) {
	_, logger, err := commandEnv()
	if err != nil {
		return 2, err.Error()
	}

	err = cachedir.AddTag(dir)
	logger.WithFields(logging.DirFields("tag", dir)).WithError(err).Debug("add tag")
	switch {
	case err == nil:
		return 0, fmt.Sprintf("%s tagged with CACHEDIR.TAG", dir)
	case cachedir.Classify(err) == cachedir.KindAlreadyExists:
		return 1, fmt.Sprintf("%s already contains CACHEDIR.TAG", dir)
	default:
		return 2, err.Error()
	}
}

func ensureCommand(dir string) (int, string) {
	_, logger, err := commandEnv()
	if err != nil {
		return 2, err.Error()
	}

	err = cachedir.EnsureTag(dir)
	logger.WithFields(logging.DirFields("ensure", dir)).WithError(err).Debug("ensure tag")
	if err != nil {
		return 2, err.Error()
	}
	return 0, fmt.Sprintf("%s has CACHEDIR.TAG", dir)
}

func mkdirCommand(dir string) (int, string) {
	cfg, logger, err := commandEnv()
	if err != nil {
		return 2, err.Error()
	}

	created, err := cachedir.MkdirAtomicMode(dir, cfg.Global.DirMode.Perm())
	fields := logging.DirFields("mkdir", dir)
	fields["created"] = created
	fields["mode"] = cfg.Global.DirMode.String()
	logger.WithFields(fields).WithError(err).Debug("mkdir atomic")
	switch {
	case err != nil:
		return 2, err.Error()
	case created:
		return 0, fmt.Sprintf("%s created with CACHEDIR.TAG", dir)
	default:
		return 1, fmt.Sprintf("%s already exists", dir)
	}
}

// commandEnv 为会写入文件系统的子命令加载配置与日志：CACHEDIR_CONFIG 指定的文件必须存在，
// 默认路径缺失时使用内置默认值。
func commandEnv() (*config.Config, *logrus.Logger, error) {
	path := os.Getenv(configEnv)
	load := config.Load
	if path == "" {
		load = config.LoadOrDefault
	}

	cfg, err := load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}
	logger, err := logging.InitLogger(cfg.Global, stdErr)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}
