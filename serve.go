package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/cachedir/internal/cache"
	"github.com/any-hub/cachedir/internal/config"
	"github.com/any-hub/cachedir/internal/logging"
	"github.com/any-hub/cachedir/internal/server"
	"github.com/any-hub/cachedir/internal/version"
)

// configEnv 指定配置文件路径的环境变量，优先级低于 --config。
const configEnv = "CACHEDIR_CONFIG"

// serveOptions 汇总 serve 标志解析后的结果，便于在测试中注入。
type serveOptions struct {
	configPath string
	explicit   bool
	checkOnly  bool
}

// parseServeFlags 解析 serve 参数，并结合环境变量计算最终的配置路径。
func parseServeFlags(args []string) (serveOptions, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
	)
	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./cachedir.toml，可被 CACHEDIR_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")

	if err := fs.Parse(args); err != nil {
		return serveOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}
	if fs.NArg() > 0 {
		return serveOptions{}, fmt.Errorf("解析参数失败: 多余的参数 %v", fs.Args())
	}

	path := os.Getenv(configEnv)
	if configFlag != "" {
		path = configFlag
	}
	opts := serveOptions{configPath: path, explicit: path != "", checkOnly: checkOnly}
	if path == "" {
		opts.configPath = config.DefaultPath
	}
	return opts, nil
}

// serve 遵循“配置 → 日志 → 存储根目录 → 预声明命名空间 → Fiber server”顺序启动。
func serve(args []string) (int, string) {
	opts, err := parseServeFlags(args)
	if err != nil {
		return 2, err.Error()
	}

	cfg, err := loadServeConfig(opts)
	if err != nil {
		return 1, fmt.Sprintf("加载配置失败: %v", err)
	}

	logger, err := logging.InitLogger(cfg.Global, stdErr)
	if err != nil {
		return 1, fmt.Sprintf("初始化日志失败: %v", err)
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["caches"] = config.CacheNames(cfg.Caches)
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0, ""
	}

	app, err := prepareServer(context.Background(), cfg, logger)
	if err != nil {
		return 1, err.Error()
	}

	fields := logging.BaseFields("startup", opts.configPath)
	fields["caches"] = config.CacheNames(cfg.Caches)
	fields["listen_port"] = cfg.Global.ListenPort
	fields["storage_path"] = cfg.Global.StoragePath
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(app, cfg.Global.ListenPort, logger); err != nil {
		return 1, fmt.Sprintf("HTTP 服务启动失败: %v", err)
	}
	return 0, ""
}

func loadServeConfig(opts serveOptions) (*config.Config, error) {
	if opts.explicit {
		return config.Load(opts.configPath)
	}
	return config.LoadOrDefault(opts.configPath)
}

// prepareServer 打开存储根目录、物化配置中声明的命名空间并构建 Fiber 应用。
func prepareServer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*fiber.App, error) {
	store, err := cache.NewStore(cfg.Global.StoragePath, cfg.Global.DirMode.Perm())
	if err != nil {
		return nil, fmt.Errorf("初始化缓存目录失败: %w", err)
	}

	for _, c := range cfg.Caches {
		ns, err := store.Ensure(ctx, c.Name)
		if err != nil {
			return nil, fmt.Errorf("初始化缓存命名空间 %s 失败: %w", c.Name, err)
		}
		fields := logging.DirFields("ensure_cache", ns.Path)
		fields["cache"] = ns.Name
		fields["created"] = ns.Created
		fields["state"] = ns.State.String()
		entry := logger.WithFields(fields)
		if ns.Tagged() {
			entry.Info("缓存命名空间就绪")
		} else {
			entry.Warn("缓存命名空间标记内容不符")
		}
	}

	return server.NewApp(server.AppOptions{Logger: logger, Store: store})
}

func startHTTPServer(app *fiber.App, port int, logger *logrus.Logger) error {
	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
