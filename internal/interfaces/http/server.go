package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/fabric-stock-api/pkg/logger"
)

// HealthMessage texto fijo de GET /health.
const HealthMessage = "Fabric Stock Management API is running"

// ServerConfig opciones de la app Fiber.
type ServerConfig struct {
	Name           string
	BodyLimit      int // bytes; 0 = límite por defecto de Fiber
	AllowedOrigins []string
	Metrics        *Metrics // nil = sin /metrics
}

// NewApp construye la app Fiber con middlewares, /health y las rutas de la API.
// /health no depende de la base de datos.
func NewApp(cfg ServerConfig, deps RouterDeps) *fiber.App {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
		deps.Logger = log
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	if cfg.Metrics != nil {
		app.Use(cfg.Metrics.Middleware())
		app.Get("/metrics", cfg.Metrics.Handler())
	}
	app.Use(CORS(cfg.AllowedOrigins, log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": HealthMessage})
	})

	Router(app, deps)
	return app
}
