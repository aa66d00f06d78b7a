package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogacion-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Validation *usecase.ValidationUseCase
	Export     *usecase.ExportUseCase
	UI         UIConfig
}

// Router registra las rutas de la aplicación: UI servida en servidor y API JSON.
func Router(app *fiber.App, deps RouterDeps) {
	// UI (formulario + resultados)
	ui := NewUIHandler(deps.Validation, deps.Export, deps.UI)
	app.Get("/", ui.Index)
	app.Post("/validar", ui.Validate)
	app.Post("/validar/export", ui.ExportForm)

	// API JSON
	api := app.Group("/api")
	validationHandler := NewValidationHandler(deps.Validation, deps.Export)
	validaciones := api.Group("/validaciones")
	validaciones.Post("/", validationHandler.ValidateBatch)
	validaciones.Post("/export", validationHandler.Export)
}
