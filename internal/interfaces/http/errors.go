package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fabric-stock-api/internal/application/dto"
	"github.com/jhoicas/fabric-stock-api/internal/domain"
	"github.com/jhoicas/fabric-stock-api/pkg/logger"
)

const genericErrorMessage = "error interno del servidor"

// writeError traduce errores de dominio a respuestas JSON:
// ErrInvalidInput → 400, ErrNotFound → 404, ErrUpstream → 500, resto → 500 genérico.
// La causa de los 500 solo se registra en el log.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	msg := domain.Message(err)
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: orDefault(msg, "datos inválidos")})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: orDefault(msg, "recurso no encontrado")})
	case errors.Is(err, domain.ErrUpstream):
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("fallo de servicio externo")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: orDefault(msg, genericErrorMessage)})
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: genericErrorMessage})
	}
}

// ErrorHandler manejador de errores de Fiber: errores del framework (404 de ruta, 413, etc.)
// y pánicos recuperados salen con el mismo formato JSON que el resto de la API.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("error del servidor HTTP")
				return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: genericErrorMessage})
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: httpErrorCode(fe.Code), Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}

func httpErrorCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return "INVALID_BODY"
	default:
		return "HTTP_ERROR"
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
