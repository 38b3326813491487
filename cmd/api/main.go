package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/export"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Persistencia: PostgreSQL si hay base configurada; si no, store en memoria (desarrollo).
	var (
		txRunner  inventory.TxRunner
		materials repository.MaterialRepository
	)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
		}
		txRunner = postgres.NewTxRunner(pool)
		materials = postgres.NewMaterialRepository(pool)
	} else {
		log.Warn().Msg("sin base de datos configurada: usando store en memoria")
		store := memory.New()
		txRunner, materials = store, store
	}

	registry := inventory.NewRegistry(txRunner, materials, log, inventory.RegistryConfig{
		MaxRetries: cfg.Ledger.MaxRetries,
	})

	// Imágenes: GCS + optimización. Sin bucket la subida responde 503.
	var blobs inventory.BlobStore
	if cfg.Storage.GCSBucket != "" {
		gcsStore, err := storage.NewGCSStore(ctx, storage.GCSConfig{
			Bucket:      cfg.Storage.GCSBucket,
			CDNDomain:   cfg.Storage.CDNDomain,
			Credentials: cfg.Storage.Credentials,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("cliente de Cloud Storage")
		}
		defer gcsStore.Close()
		blobs = gcsStore
	}
	imageUploadUC := inventory.NewImageUploadUseCase(
		blobs, storage.NewImageOptimizer(cfg.Storage.ImageMaxSide), cfg.Storage.MaxImageBytes(),
	)

	reports := report.NewExtractor(registry, map[string]report.Exporter{
		"csv": export.NewCSVExporter(cfg.Ledger.CSVUTF8),
		"pdf": export.NewPDFExporter(cfg.App.Organization),
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Registry:    registry,
		ImageUpload: imageUploadUC,
		Reports:     reports,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
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
