package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/fabric-stock-api/internal/application/analytics"
	"github.com/jhoicas/fabric-stock-api/internal/application/dto"
	"github.com/jhoicas/fabric-stock-api/internal/application/usecase"
	apphttp "github.com/jhoicas/fabric-stock-api/internal/interfaces/http"
	"github.com/jhoicas/fabric-stock-api/internal/testutil"
	"github.com/jhoicas/fabric-stock-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testImageURL = "http://storage.local/fabric-stock/fabric-categories/img.jpg"

type testEnv struct {
	app      *fiber.App
	store    *testutil.Store
	uploader *testutil.Uploader
}

// newTestEnv monta la app completa (middlewares + rutas) sobre repositorios en memoria.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := testutil.NewStore()
	up := &testutil.Uploader{URL: testImageURL}
	app := apphttp.NewApp(apphttp.ServerConfig{
		Name:           "fabric-stock-test",
		AllowedOrigins: []string{"http://localhost:3000", "*.vercel.app"},
		Metrics:        apphttp.NewMetrics(),
	}, apphttp.RouterDeps{
		CategoryUC:  usecase.NewCategoryUseCase(store.Categories(), store, up),
		StockUC:     usecase.NewStockUseCase(store.Stock(), store.Categories()),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Stock()),
	})
	return &testEnv{app: app, store: store, uploader: up}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err, "app.Test no debe fallar")
	return resp
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

// multipartRequest arma un formulario con campos y, si image no es nil, un archivo "image".
func multipartRequest(t *testing.T, method, path string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "tela.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out), "la respuesta debe ser JSON válido")
	return out
}

func (e *testEnv) createCategory(t *testing.T, name string) dto.CategoryResponse {
	t.Helper()
	resp := e.do(t, multipartRequest(t, http.MethodPost, "/api/categories", map[string]string{"name": name}, nil))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.CategoryResponse](t, resp)
}

func (e *testEnv) createStock(t *testing.T, stockType, fabricType string, quantity int64, date string) dto.StockEntryResponse {
	t.Helper()
	resp := e.doJSON(t, http.MethodPost, "/api/stock", map[string]any{
		"type": stockType, "date": date, "fabricType": fabricType, "quantity": quantity, "remarks": " ",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.StockEntryResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujoCompleto_CategoriaStockDashboardCascada(t *testing.T) {
	env := newTestEnv(t)

	c1 := env.createCategory(t, "Algodón")
	assert.Empty(t, c1.Image)

	in := env.createStock(t, "inward", c1.ID, 100, "2024-01-10")
	require.NotNil(t, in.FabricType)
	assert.Equal(t, "Algodón", in.FabricType.Name)
	assert.Equal(t, "", in.Remarks)
	env.createStock(t, "outward", c1.ID, 30, "2024-01-11")

	// Dashboard: 100 / 30 / 70
	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/api/stock/dashboard/stats", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	stats := decode[dto.DashboardStatsResponse](t, resp)
	assert.True(t, stats.TotalInward.Equal(decimal.NewFromInt(100)))
	assert.True(t, stats.TotalOutward.Equal(decimal.NewFromInt(30)))
	assert.True(t, stats.Available.Equal(decimal.NewFromInt(70)))
	require.Len(t, stats.CategoryStats, 1)
	assert.Equal(t, "Algodón", stats.CategoryStats[0].CategoryName)
	assert.True(t, stats.CategoryStats[0].Available.Equal(decimal.NewFromInt(70)))

	// Filtro por tipo
	resp = env.do(t, httptest.NewRequest(http.MethodGet, "/api/stock/type/inward", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	inward := decode[[]dto.StockEntryResponse](t, resp)
	require.Len(t, inward, 1)
	assert.Equal(t, in.ID, inward[0].ID)

	// Listado ordenado por fecha descendente
	all := decode[[]dto.StockEntryResponse](t, env.do(t, httptest.NewRequest(http.MethodGet, "/api/stock", nil)))
	require.Len(t, all, 2)
	assert.Equal(t, "outward", all[0].Type)

	// Borrado en cascada
	resp = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/categories/"+c1.ID, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	msg := decode[dto.MessageResponse](t, resp)
	assert.Contains(t, msg.Message, "2")

	all = decode[[]dto.StockEntryResponse](t, env.do(t, httptest.NewRequest(http.MethodGet, "/api/stock", nil)))
	assert.Empty(t, all, "no quedan movimientos de la categoría borrada")

	resp = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/categories/"+c1.ID, nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "borrar de nuevo debe dar 404")
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.NotEmpty(t, body.Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCategory_ConImagen(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, multipartRequest(t, http.MethodPost, "/api/categories",
		map[string]string{"name": "Seda", "description": "natural"}, []byte("png-bytes")))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	out := decode[dto.CategoryResponse](t, resp)

	assert.Equal(t, testImageURL, out.Image)
	assert.Equal(t, "natural", out.Description)
	require.Equal(t, 1, env.uploader.Calls())
	assert.Equal(t, "tela.png", env.uploader.Files[0].Filename)
}

func TestCreateCategory_SinNombre400(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, multipartRequest(t, http.MethodPost, "/api/categories", map[string]string{"description": "x"}, nil))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "name es requerido", body.Message)
	assert.Zero(t, env.store.CategoryCount())
}

func TestCreateCategory_FalloDeSubida500(t *testing.T) {
	env := newTestEnv(t)
	env.uploader.Err = assert.AnError

	resp := env.do(t, multipartRequest(t, http.MethodPost, "/api/categories", map[string]string{"name": "Seda"}, []byte("img")))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "UPSTREAM", body.Code)
	assert.NotContains(t, body.Message, assert.AnError.Error(), "la causa técnica no se expone")
	assert.Zero(t, env.store.CategoryCount())
}

func TestUpdateCategory_Parcial(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCategory(t, "Lino")

	resp := env.do(t, multipartRequest(t, http.MethodPut, "/api/categories/"+c.ID, map[string]string{"description": "fresco"}, nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.CategoryResponse](t, resp)
	assert.Equal(t, "Lino", out.Name, "el nombre no enviado se conserva")
	assert.Equal(t, "fresco", out.Description)
	assert.Empty(t, out.Image)

	resp = env.doJSON(t, http.MethodPut, "/api/categories/"+c.ID, map[string]string{"name": "Lino puro"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out = decode[dto.CategoryResponse](t, resp)
	assert.Equal(t, "Lino puro", out.Name)
	assert.Equal(t, "fresco", out.Description)
}

func TestUpdateCategory_NoExiste404(t *testing.T) {
	env := newTestEnv(t)

	for _, id := range []string{uuid.NewString(), "no-es-uuid"} {
		resp := env.do(t, multipartRequest(t, http.MethodPut, "/api/categories/"+id, map[string]string{"name": "x"}, nil))
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, "id %s", id)
	}
}

func TestListCategories(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw), "la lista vacía se serializa como []")

	env.createCategory(t, "A")
	env.createCategory(t, "B")
	list := decode[[]dto.CategoryResponse](t, env.do(t, httptest.NewRequest(http.MethodGet, "/api/categories", nil)))
	assert.Len(t, list, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateStock_SinQuantity400(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCategory(t, "Algodón")

	resp := env.doJSON(t, http.MethodPost, "/api/stock", map[string]any{"type": "inward", "fabricType": c.ID})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Message, "quantity")
	assert.Zero(t, env.store.EntryCount(), "no se persiste nada")
}

func TestCreateStock_Invalidos400(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCategory(t, "Algodón")

	cases := map[string]map[string]any{
		"tipo desconocido":      {"type": "sideways", "fabricType": c.ID, "quantity": 1},
		"quantity negativa":     {"type": "inward", "fabricType": c.ID, "quantity": -5},
		"categoría inexistente": {"type": "inward", "fabricType": uuid.NewString(), "quantity": 1},
		"quantity no numérica":  {"type": "inward", "fabricType": c.ID, "quantity": "mucho"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			resp := env.doJSON(t, http.MethodPost, "/api/stock", body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader(`{"type":`))
	req.Header.Set("Content-Type", "application/json")
	resp := env.do(t, req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
	assert.Zero(t, env.store.EntryCount())
}

func TestCreateStock_QuantityComoTextoYFormulario(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCategory(t, "Algodón")

	resp := env.doJSON(t, http.MethodPost, "/api/stock", map[string]any{"type": "inward", "fabricType": c.ID, "quantity": "12.5"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.True(t, decode[dto.StockEntryResponse](t, resp).Quantity.Equal(decimal.RequireFromString("12.5")))

	form := url.Values{"type": {"outward"}, "fabricType": {c.ID}, "quantity": {"2"}, "remarks": {"  venta  "}}
	req := httptest.NewRequest(http.MethodPost, "/api/stock", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp = env.do(t, req)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	out := decode[dto.StockEntryResponse](t, resp)
	assert.Equal(t, "outward", out.Type)
	assert.Equal(t, "venta", out.Remarks)
}

func TestUpdateAndDeleteStock(t *testing.T) {
	env := newTestEnv(t)
	c := env.createCategory(t, "Algodón")
	entry := env.createStock(t, "inward", c.ID, 10, "2024-05-01")

	resp := env.doJSON(t, http.MethodPut, "/api/stock/"+entry.ID, map[string]any{
		"type": "outward", "fabricType": c.ID, "quantity": 3, "date": "2024-05-02",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decode[dto.StockEntryResponse](t, resp)
	assert.Equal(t, "outward", out.Type)
	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(3)))

	resp = env.doJSON(t, http.MethodPut, "/api/stock/"+uuid.NewString(), map[string]any{
		"type": "outward", "fabricType": c.ID, "quantity": 3,
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/stock/"+entry.ID, nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp = env.do(t, httptest.NewRequest(http.MethodDelete, "/api/stock/"+entry.ID, nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestListStockByCategory(t *testing.T) {
	env := newTestEnv(t)
	a := env.createCategory(t, "A")
	b := env.createCategory(t, "B")
	env.createStock(t, "inward", a.ID, 1, "")
	env.createStock(t, "inward", b.ID, 2, "")

	list := decode[[]dto.StockEntryResponse](t, env.do(t, httptest.NewRequest(http.MethodGet, "/api/stock/category/"+b.ID, nil)))
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].FabricType.Name)

	list = decode[[]dto.StockEntryResponse](t, env.do(t, httptest.NewRequest(http.MethodGet, "/api/stock/type/lateral", nil)))
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Infraestructura HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, apphttp.HealthMessage, body["message"])
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	t.Run("origen rechazado", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		resp := env.do(t, req)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "CORS", decode[dto.ErrorResponse](t, resp).Code)
	})

	t.Run("origen exacto", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		resp := env.do(t, req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("subdominio comodín", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
		req.Header.Set("Origin", "https://telas-preview.vercel.app")
		resp := env.do(t, req)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "https://telas-preview.vercel.app", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/stock", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp := env.do(t, req)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	})
}

func TestOriginMatcher(t *testing.T) {
	match := apphttp.OriginMatcher([]string{"https://app.example.com", "*.vercel.app", "https://*.netlify.app"})

	assert.True(t, match("https://app.example.com"))
	assert.True(t, match("https://x.vercel.app"))
	assert.True(t, match("https://x.netlify.app"))
	assert.False(t, match("http://x.netlify.app"), "el esquema debe coincidir")
	assert.False(t, match("https://vercel.app.evil.com"))
	assert.False(t, match("https://app.example.com.evil.com"))
	assert.False(t, match(""))
}

func TestRutaInexistente404JSON(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/api/nada", nil))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))

	resp := env.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `http_requests_total{method="GET",route="/health",status="200"} 1`)
	assert.Contains(t, string(raw), "http_request_duration_seconds")
}

func TestRequestLogger_IncluyeRequestID(t *testing.T) {
	var buf bytes.Buffer
	store := testutil.NewStore()
	app := apphttp.NewApp(apphttp.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}}, apphttp.RouterDeps{
		CategoryUC:  usecase.NewCategoryUseCase(store.Categories(), store, &testutil.Uploader{}),
		StockUC:     usecase.NewStockUseCase(store.Stock(), store.Categories()),
		DashboardUC: appanalytics.NewDashboardUseCase(store.Stock()),
		Logger:      logger.New(logger.Config{Env: "production", Output: &buf}),
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ev map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev), "una línea JSON por petición")
	assert.Equal(t, "req-123", ev["request_id"])
	assert.Equal(t, "/health", ev["path"])
	assert.EqualValues(t, 200, ev["status"])
}
