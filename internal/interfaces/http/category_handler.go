package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fabric-stock-api/internal/application/dto"
	"github.com/jhoicas/fabric-stock-api/internal/application/usecase"
	"github.com/jhoicas/fabric-stock-api/pkg/logger"
)

// CategoryHandler maneja las peticiones HTTP para categorías (tipos de tela).
type CategoryHandler struct {
	uc  *usecase.CategoryUseCase
	log *logger.Logger
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar categorías
// @Tags         categories
// @Produce      json
// @Success      200  {array}   dto.CategoryResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear categoría
// @Description  Formulario multipart. La imagen opcional se redimensiona a 300 px de ancho.
// @Tags         categories
// @Accept       multipart/form-data
// @Produce      json
// @Param        name         formData  string  true   "Nombre"
// @Param        description  formData  string  false  "Descripción"
// @Param        image        formData  file    false  "Imagen"
// @Success      201  {object}  dto.CategoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if isJSON(c) {
		var body struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := c.BodyParser(&body); err != nil {
			return invalidBody(c, err)
		}
		in.Name, in.Description = body.Name, body.Description
	} else {
		in.Name = c.FormValue("name")
		in.Description = c.FormValue("description")
	}

	image, closeImage, err := formImage(c, "image")
	if err != nil {
		return invalidBody(c, err)
	}
	defer closeImage()

	out, err := h.uc.Create(c.UserContext(), in, image)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar categoría
// @Description  Solo se modifican los campos enviados. Sin imagen nueva se conserva la actual.
// @Tags         categories
// @Accept       multipart/form-data
// @Produce      json
// @Param        id           path      string  true   "ID de la categoría"
// @Param        name         formData  string  false  "Nombre"
// @Param        description  formData  string  false  "Descripción"
// @Param        image        formData  file    false  "Imagen"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	in, err := parseUpdateCategory(c)
	if err != nil {
		return invalidBody(c, err)
	}
	image, closeImage, err := formImage(c, "image")
	if err != nil {
		return invalidBody(c, err)
	}
	defer closeImage()

	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in, image)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Elimina la categoría y todos sus movimientos de stock en una transacción.
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	removed, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.MessageResponse{
		Message: fmt.Sprintf("categoría eliminada junto con %d movimientos de stock", removed),
	})
}
