package http

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fabric-stock-api/internal/application/dto"
	"github.com/jhoicas/fabric-stock-api/internal/application/ports"
	"github.com/shopspring/decimal"
)

// formImage lee el archivo opcional del campo field. Sin archivo (o vacío) devuelve nil.
// La función devuelta cierra el archivo y siempre es segura de llamar.
func formImage(c *fiber.Ctx, field string) (*ports.ImageFile, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil || fh.Size == 0 {
		return nil, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &ports.ImageFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Reader:      f,
	}, func() { _ = f.Close() }, nil
}

// optionalFormValue distingue "campo no enviado" (nil) de "campo enviado vacío".
func optionalFormValue(c *fiber.Ctx, form *multipart.Form, key string) *string {
	if form != nil {
		if vals, ok := form.Value[key]; ok && len(vals) > 0 {
			v := vals[0]
			return &v
		}
		return nil
	}
	args := c.Request().PostArgs()
	if args.Has(key) {
		v := string(args.Peek(key))
		return &v
	}
	return nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

func isJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON)
}

// parseUpdateCategory lee los campos opcionales de PUT /categories/:id desde multipart,
// urlencoded o JSON.
func parseUpdateCategory(c *fiber.Ctx) (dto.UpdateCategoryRequest, error) {
	var in dto.UpdateCategoryRequest
	if isJSON(c) {
		var body struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
		}
		if err := c.BodyParser(&body); err != nil {
			return in, err
		}
		in.Name, in.Description = body.Name, body.Description
		return in, nil
	}
	var form *multipart.Form
	if isMultipart(c) {
		f, err := c.MultipartForm()
		if err != nil {
			return in, err
		}
		form = f
	}
	in.Name = optionalFormValue(c, form, "name")
	in.Description = optionalFormValue(c, form, "description")
	return in, nil
}

// errInvalidQuantity quantity enviado en formulario que no es numérico.
var errInvalidQuantity = fiber.NewError(fiber.StatusBadRequest, "quantity debe ser numérico")

// parseStockRequest acepta JSON (quantity número o cadena) o formulario.
// Un quantity ausente o vacío queda en nil y lo rechaza la validación del caso de uso.
func parseStockRequest(c *fiber.Ctx) (dto.StockEntryRequest, error) {
	var in dto.StockEntryRequest
	if isJSON(c) {
		err := c.BodyParser(&in)
		return in, err
	}
	in.Type = c.FormValue("type")
	in.Date = c.FormValue("date")
	in.FabricType = c.FormValue("fabricType")
	in.Remarks = c.FormValue("remarks")
	if q := strings.TrimSpace(c.FormValue("quantity")); q != "" {
		d, err := decimal.NewFromString(q)
		if err != nil {
			return in, errInvalidQuantity
		}
		in.Quantity = &d
	}
	return in, nil
}

func invalidBody(c *fiber.Ctx, err error) error {
	msg := "cuerpo inválido"
	if errors.Is(err, errInvalidQuantity) {
		msg = errInvalidQuantity.Message
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: msg})
}
