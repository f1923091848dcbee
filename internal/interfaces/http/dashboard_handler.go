package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/fabric-stock-api/internal/application/analytics"
	"github.com/jhoicas/fabric-stock-api/pkg/logger"
)

// DashboardHandler maneja las estadísticas del dashboard de stock.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// GetStats godoc
// @Summary      Estadísticas de stock
// @Description  Entradas, salidas y disponible globales y por categoría con movimientos.
// @Tags         stock
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock/dashboard/stats [get]
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetStats(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(stats)
}
