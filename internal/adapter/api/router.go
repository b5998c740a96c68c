package api

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"

	"dream-analyzer/internal/config"
	"dream-analyzer/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

//go:embed views/*.html
var viewsFS embed.FS

// NewApp builds the Fiber application with views and error handling.
func NewApp(cfg config.ServerConfig) *fiber.App {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		panic(err)
	}

	return fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		Views:        html.NewFileSystem(http.FS(sub), ".html"),
		ErrorHandler: errorHandler,
	})
}

func SetupRouter(app *fiber.App, cfg config.ServerConfig, handler *DreamHandler, collector *metrics.Collector) {
	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": cfg.Version,
			"env":     cfg.Environment,
		})
	})

	if reg := collector.Registry(); reg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	app.Get("/", handler.Index)
	app.Post("/analyze-dream", handler.AnalyzeDream)
}

// errorHandler keeps internal details out of the response body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		logrus.WithField("component", "api").WithError(err).Error("Request failed")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(http.StatusText(code))
}
