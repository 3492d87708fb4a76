package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/any-hub/cachedir/internal/cache"
	"github.com/any-hub/cachedir/internal/logging"
)

// AppOptions controls the dependencies injected into the Fiber application.
type AppOptions struct {
	Logger *logrus.Logger
	Store  cache.Store
}

const contextKeyRequestID = "_cachedir_request_id"

// NewApp builds a Fiber application with request-ID/access-log middleware,
// the namespace routes and diagnostics endpoints.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Store == nil {
		return nil, errors.New("cache store is required")
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts.Logger))

	registerDiagnosticsRoutes(app, opts.Store)
	registerCacheRoutes(app, opts.Store, opts.Logger)

	return app, nil
}

// requestContextMiddleware 负责生成请求 ID，并在请求结束后输出一条访问日志。
func requestContextMiddleware(logger *logrus.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		logger.WithFields(logging.RequestFields(reqID, c.Method(), c.Path(), status)).Info("request")
		return err
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}
