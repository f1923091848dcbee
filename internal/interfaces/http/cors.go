package http

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jhoicas/fabric-stock-api/internal/application/dto"
	"github.com/jhoicas/fabric-stock-api/pkg/logger"
)

// fallbackOrigin evita que el middleware de Fiber caiga en "*" cuando solo hay comodines:
// con AllowCredentials, "*" hace que cors.New entre en pánico. Al construir la app Fiber
// avisa de que AllowOrigins y AllowOriginsFunc están definidos a la vez; es lo esperado.
const fallbackOrigin = "http://localhost:3000"

// OriginMatcher indica si un origen está en la lista permitida.
// Las entradas "*.sufijo" (o "https://*.sufijo") admiten cualquier subdominio de sufijo.
func OriginMatcher(allowed []string) func(origin string) bool {
	return func(origin string) bool {
		for _, a := range allowed {
			if i := strings.Index(a, "*."); i >= 0 {
				// "https://*.example.com" exige además el mismo esquema.
				if strings.HasPrefix(origin, a[:i]) && strings.HasSuffix(origin, a[i+1:]) &&
					len(origin) > len(a)-1 {
					return true
				}
				continue
			}
			if origin == a {
				return true
			}
		}
		return false
	}
}

// CORS rechaza con 403 las peticiones cuyo Origin no está permitido y delega
// las cabeceras CORS (incluido el preflight) en el middleware de Fiber.
// Las peticiones sin Origin (curl, servidor a servidor) pasan.
func CORS(allowed []string, log *logger.Logger) fiber.Handler {
	match := OriginMatcher(allowed)
	exact := exactOrigins(allowed)
	if len(exact) == 0 {
		exact = []string{fallbackOrigin}
	}
	corsHandler := cors.New(cors.Config{
		// Fiber no admite comodín con credenciales: los orígenes exactos van en AllowOrigins
		// y los de subdominio se resuelven con AllowOriginsFunc.
		AllowOrigins:     strings.Join(exact, ","),
		AllowOriginsFunc: match,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: true,
	})
	return func(c *fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin != "" && !match(origin) {
			log.Warn().Str("origin", origin).Str("path", c.Path()).Msg("CORS: origen rechazado")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code: "CORS", Message: "CORS: origen " + origin + " no permitido",
			})
		}
		return corsHandler(c)
	}
}

// exactOrigins filtra las entradas que son orígenes completos (scheme://host[:port]).
func exactOrigins(allowed []string) []string {
	out := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if strings.Contains(a, "*") {
			continue
		}
		u, err := url.Parse(a)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" || u.Path != "" || u.RawQuery != "" {
			continue
		}
		out = append(out, a)
	}
	return out
}
