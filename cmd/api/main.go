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

	appcatalog "github.com/bodegapro/movimientos-api/internal/application/catalog"
	appdraft "github.com/bodegapro/movimientos-api/internal/application/draft"
	"github.com/bodegapro/movimientos-api/internal/domain/repository"
	"github.com/bodegapro/movimientos-api/internal/infrastructure/legacy"
	"github.com/bodegapro/movimientos-api/internal/infrastructure/postgres"
	httpRouter "github.com/bodegapro/movimientos-api/internal/interfaces/http"
	"github.com/bodegapro/movimientos-api/pkg/config"
	"github.com/bodegapro/movimientos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("catalog_backend", cfg.Catalog.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Catálogo y consulta de existencias: base propia o API heredada.
	// El cliente heredado normaliza las grafías alternas de campo en la frontera.
	var catalogRepo repository.CatalogRepository
	var stockLookup repository.StockLookup
	if cfg.Catalog.Backend == config.CatalogBackendLegacy {
		client := legacy.NewClient(cfg.Catalog.LegacyBaseURL)
		catalogRepo = client
		stockLookup = client
	} else {
		catalogRepo = postgres.NewCatalogRepository(pool)
		stockLookup = postgres.NewStockRepository(pool)
	}

	txRunner := postgres.NewTxRunner(pool)
	submitter := postgres.NewMovementSubmitter(txRunner)
	resolver := appdraft.NewStockResolver(stockLookup, cfg.Stock.LookupTimeout, log)
	draftUC := appdraft.NewUseCase(catalogRepo, resolver, submitter, log)
	catalogUC := appcatalog.NewUseCase(catalogRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Movimientos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DraftUC:   draftUC,
		CatalogUC: catalogUC,
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
