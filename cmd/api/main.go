package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	appanalytics "github.com/jhoicas/fabric-stock-api/internal/application/analytics"
	"github.com/jhoicas/fabric-stock-api/internal/application/ports"
	"github.com/jhoicas/fabric-stock-api/internal/application/usecase"
	"github.com/jhoicas/fabric-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fabric-stock-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/fabric-stock-api/internal/interfaces/http"
	"github.com/jhoicas/fabric-stock-api/pkg/config"
	"github.com/jhoicas/fabric-stock-api/pkg/logger"

	_ "github.com/jhoicas/fabric-stock-api/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Strs("cors_origins", cfg.CORS.AllowedOrigins).
		Msg("iniciando aplicación")

	// Sin base de datos no se aceptan peticiones: el proceso termina y el supervisor lo reinicia.
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("crear esquema")
	}
	log.Debug().Msg("esquema verificado")

	var uploader ports.ImageUploader = storage.DisabledImageUploader{}
	if cfg.Storage.Enabled() {
		mc, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente MinIO")
		}
		if err := storage.EnsureBucket(ctx, mc, cfg.Storage.Bucket); err != nil {
			log.Fatal().Err(err).Str("bucket", cfg.Storage.Bucket).Msg("bucket de imágenes")
		}
		uploader = storage.NewMinioImageUploader(mc, cfg.Storage)
	} else {
		log.Warn().Msg("STORAGE_ENDPOINT vacío: las categorías con imagen devolverán error")
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	stockRepo := postgres.NewStockEntryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	categoryUC := usecase.NewCategoryUseCase(categoryRepo, txRunner, uploader)
	stockUC := usecase.NewStockUseCase(stockRepo, categoryRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(stockRepo)

	var metrics *httpRouter.Metrics
	if cfg.Metrics.Enabled {
		metrics = httpRouter.NewMetrics()
	}

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		Name:           cfg.App.Name,
		BodyLimit:      cfg.HTTP.BodyLimit(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        metrics,
	}, httpRouter.RouterDeps{
		CategoryUC:  categoryUC,
		StockUC:     stockUC,
		DashboardUC: dashboardUC,
		Logger:      log,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fabric Stock API",
	}))

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
