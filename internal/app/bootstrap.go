package app

import (
	"fmt"
	"log"
	"strings"

	"folio/internal/config"
	"folio/internal/delivery/http/handler"
	"folio/internal/delivery/http/middleware"
	"folio/internal/delivery/http/routes"
	v1 "folio/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap wires the whole service: resources, middleware, routes. The
// returned cleanup closes every owned connection.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = log.Default()
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName: cfg.App.AppName,
	})

	errMw := middleware.NewErrorMiddleware()
	f.Use(errMw.Middleware())
	accessLog := middleware.NewAccessLogMiddleware(logger)
	f.Use(accessLog.Middleware())

	deps := v1.Deps{
		Config: cfg,
		Logger: logger,
		DB:     c.DB,
		Users:  c.Users,
		Cache:  c.Cache,
		Store:  c.Store,
		Hub:    c.Hub,
	}
	health := handler.NewHealthHandler(c.DB, c.Cache)

	registry := routes.NewRegistry(deps, health)
	registry.Register(f)

	app := &App{Fiber: f, Container: c}
	return app, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
