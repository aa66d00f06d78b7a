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

	"github.com/jhoicas/catalogacion-api/internal/application/usecase"
	"github.com/jhoicas/catalogacion-api/internal/domain/taxonomy"
	infrapdf "github.com/jhoicas/catalogacion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/catalogacion-api/internal/infrastructure/ripley"
	httpRouter "github.com/jhoicas/catalogacion-api/internal/interfaces/http"
	"github.com/jhoicas/catalogacion-api/pkg/config"
	"github.com/jhoicas/catalogacion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("catalogo", cfg.Catalog.BaseURL).
		Msg("iniciando aplicación")

	// Gateway de catálogo: un http.Client por proceso, construido aquí y
	// pasado a los usecases; nada de singletons ambientales.
	catalogGateway := ripley.NewClient(cfg.Catalog, log)

	rules := taxonomy.RuleSet{
		MinLevels:   cfg.Catalog.MinLevels,
		MiscMarkers: cfg.Catalog.MiscMarkers,
	}
	validationUC := usecase.NewValidationUseCase(catalogGateway, rules, cfg.Catalog.Delay(), log)

	reportGenerator := infrapdf.NewMarotoReportGenerator()
	exportUC := usecase.NewExportUseCase(reportGenerator)

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
		Views:   httpRouter.NewViewsEngine(),
		// Un lote grande a 1 SKU/s puede tardar minutos: el write timeout
		// debe cubrir la corrida completa, no una petición típica.
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Minute * 15,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Catalogación API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Validation: validationUC,
		Export:     exportUC,
		UI: httpRouter.UIConfig{
			BaseURL:       cfg.Catalog.BaseURL,
			MinLevels:     cfg.Catalog.MinLevels,
			HasEnvCookies: cfg.Catalog.CookieHeader != "" || cfg.Catalog.CookiesJSON != "",
		},
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
