package server

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/cachedir/internal/cache"
	"github.com/any-hub/cachedir/internal/cachedir"
	"github.com/any-hub/cachedir/internal/version"
)

type cachePayload struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	State  string `json:"state"`
	Tagged bool   `json:"tagged"`
}

type ensurePayload struct {
	cachePayload
	Created bool `json:"created"`
}

func encodeNamespace(ns *cache.Namespace) cachePayload {
	return cachePayload{
		Name:   ns.Name,
		Path:   ns.Path,
		State:  ns.State.String(),
		Tagged: ns.Tagged(),
	}
}

// registerCacheRoutes 暴露 /v1/caches/:name：GET 探测标记状态，PUT 原子物化命名空间。
func registerCacheRoutes(app *fiber.App, store cache.Store, logger *logrus.Logger) {
	app.Get("/v1/caches/:name", func(c fiber.Ctx) error {
		ns, err := store.Stat(requestContext(c), strings.TrimSpace(c.Params("name")))
		if err != nil {
			return renderStoreError(c, logger, err)
		}
		return c.JSON(encodeNamespace(ns))
	})

	app.Put("/v1/caches/:name", func(c fiber.Ctx) error {
		ns, err := store.Ensure(requestContext(c), strings.TrimSpace(c.Params("name")))
		if err != nil {
			return renderStoreError(c, logger, err)
		}

		status := fiber.StatusOK
		if ns.Created {
			status = fiber.StatusCreated
		}
		logger.WithFields(logrus.Fields{
			"action":     "ensure_cache",
			"request_id": RequestID(c),
			"cache":      ns.Name,
			"created":    ns.Created,
			"state":      ns.State.String(),
		}).Info("cache namespace ensured")
		return c.Status(status).JSON(ensurePayload{cachePayload: encodeNamespace(ns), Created: ns.Created})
	})
}

// registerDiagnosticsRoutes 暴露 /-/ 前缀下的版本与健康检查接口。
func registerDiagnosticsRoutes(app *fiber.App, store cache.Store) {
	app.Get("/-/version", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"version": version.Full()})
	})

	app.Get("/-/healthz", func(c fiber.Ctx) error {
		tagged, err := cachedir.IsTagged(store.Root())
		if err != nil || !tagged {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "storage_untagged",
				"root":   store.Root(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok", "root": store.Root()})
	})
}

// renderStoreError 将存储层错误映射为 HTTP 状态码与稳定的 error 代码。
func renderStoreError(c fiber.Ctx, logger *logrus.Logger, err error) error {
	status, code := statusForError(err)

	fields := logrus.Fields{
		"action":     "cache_error",
		"request_id": RequestID(c),
		"cache":      c.Params("name"),
		"error_code": code,
	}
	if status >= fiber.StatusInternalServerError {
		logger.WithFields(fields).Error(err.Error())
	} else {
		logger.WithFields(fields).Warn(err.Error())
	}

	return c.Status(status).JSON(fiber.Map{"error": code})
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, cache.ErrInvalidName):
		return fiber.StatusBadRequest, "invalid_cache_name"
	case errors.Is(err, cache.ErrNotFound):
		return fiber.StatusNotFound, "cache_not_found"
	}

	kind := cachedir.Classify(err)
	switch kind {
	case cachedir.KindNotFound:
		return fiber.StatusNotFound, kind.String()
	case cachedir.KindAlreadyExists:
		return fiber.StatusConflict, kind.String()
	case cachedir.KindPermission:
		return fiber.StatusForbidden, kind.String()
	default:
		return fiber.StatusInternalServerError, kind.String()
	}
}

func requestContext(c fiber.Ctx) context.Context {
	if ctx := c.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
