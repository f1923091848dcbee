package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/fabric-stock-api/internal/application/analytics"
	"github.com/jhoicas/fabric-stock-api/internal/application/usecase"
	"github.com/jhoicas/fabric-stock-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC  *usecase.CategoryUseCase
	StockUC     *usecase.StockUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Logger      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Categorías (tipos de tela)
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, log)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Movimientos de stock
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC, log)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, log)
	stock.Get("/dashboard/stats", dashboardHandler.GetStats)
	stock.Get("/type/:type", stockHandler.ListByType)
	stock.Get("/category/:categoryId", stockHandler.ListByCategory)
	stock.Get("/", stockHandler.List)
	stock.Post("/", stockHandler.Create)
	stock.Put("/:id", stockHandler.Update)
	stock.Delete("/:id", stockHandler.Delete)
}
