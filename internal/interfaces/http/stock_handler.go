package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fabric-stock-api/internal/application/dto"
	"github.com/jhoicas/fabric-stock-api/internal/application/usecase"
	"github.com/jhoicas/fabric-stock-api/pkg/logger"
)

// StockHandler maneja las peticiones HTTP para movimientos de stock.
type StockHandler struct {
	uc  *usecase.StockUseCase
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar movimientos de stock
// @Tags         stock
// @Produce      json
// @Success      200  {array}   dto.StockEntryResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListByType godoc
// @Summary      Listar movimientos por tipo
// @Tags         stock
// @Produce      json
// @Param        type  path  string  true  "inward | outward"
// @Success      200   {array}  dto.StockEntryResponse
// @Router       /api/stock/type/{type} [get]
func (h *StockHandler) ListByType(c *fiber.Ctx) error {
	out, err := h.uc.ListByType(c.UserContext(), c.Params("type"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListByCategory godoc
// @Summary      Listar movimientos por categoría
// @Tags         stock
// @Produce      json
// @Param        categoryId  path  string  true  "ID de la categoría"
// @Success      200         {array}  dto.StockEntryResponse
// @Router       /api/stock/category/{categoryId} [get]
func (h *StockHandler) ListByCategory(c *fiber.Ctx) error {
	out, err := h.uc.ListByCategory(c.UserContext(), c.Params("categoryId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockEntryRequest  true  "Movimiento"
// @Success      201   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock [post]
func (h *StockHandler) Create(c *fiber.Ctx) error {
	in, err := parseStockRequest(c)
	if err != nil {
		return invalidBody(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar movimiento de stock
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del movimiento"
// @Param        body  body  dto.StockEntryRequest  true  "Movimiento"
// @Success      200   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [put]
func (h *StockHandler) Update(c *fiber.Ctx) error {
	in, err := parseStockRequest(c)
	if err != nil {
		return invalidBody(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar movimiento de stock
// @Tags         stock
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{id} [delete]
func (h *StockHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{Message: "movimiento de stock eliminado"})
}
