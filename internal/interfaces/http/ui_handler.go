package http

import (
	"embed"
	"encoding/json"
	"errors"
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"

	"github.com/jhoicas/catalogacion-api/internal/application/dto"
	"github.com/jhoicas/catalogacion-api/internal/application/usecase"
	"github.com/jhoicas/catalogacion-api/internal/domain"
)

//go:embed views/*.html
var viewsFS embed.FS

// NewViewsEngine crea el motor de plantillas con las vistas embebidas en el
// binario; no hay archivos que desplegar junto al ejecutable.
func NewViewsEngine() *html.Engine {
	return html.NewFileSystem(nethttp.FS(viewsFS), ".html")
}

// UIConfig textos y parámetros que la vista muestra al operador.
type UIConfig struct {
	BaseURL       string
	MinLevels     int
	HasEnvCookies bool // si hay COOKIE_HEADER/COOKIES_JSON en el entorno
}

// UIHandler sirve el formulario y los resultados renderizados en servidor.
// Es la misma lógica que la API JSON, con salida HTML.
type UIHandler struct {
	validation *usecase.ValidationUseCase
	export     *usecase.ExportUseCase
	ui         UIConfig
}

// NewUIHandler construye el handler.
func NewUIHandler(validation *usecase.ValidationUseCase, export *usecase.ExportUseCase, ui UIConfig) *UIHandler {
	return &UIHandler{validation: validation, export: export, ui: ui}
}

// Index muestra el formulario de validación.
func (h *UIHandler) Index(c *fiber.Ctx) error {
	return c.Render("views/index", fiber.Map{
		"BaseURL":       h.ui.BaseURL,
		"MinLevels":     h.ui.MinLevels,
		"HasEnvCookies": h.ui.HasEnvCookies,
		"SKUs":          "",
	})
}

// Validate procesa el submit del formulario y renderiza los resultados.
func (h *UIHandler) Validate(c *fiber.Ctx) error {
	in := dto.ValidateBatchRequest{
		SKUs:         c.FormValue("skus"),
		CookieHeader: c.FormValue("cookie_header"),
		OnlyFailed:   c.FormValue("only_failed") == "on",
	}

	out, err := h.validation.ValidateBatch(c.UserContext(), in)
	if err != nil {
		msg := "la validación falló: " + err.Error()
		if errors.Is(err, domain.ErrEmptyBatch) {
			msg = "Pegue al menos un SKU."
		}
		return h.renderIndexError(c, in.SKUs, msg)
	}

	// Las filas viajan embebidas en los formularios de descarga; el
	// servidor no guarda la corrida.
	rowsJSON, err := json.Marshal(out.Rows)
	if err != nil {
		return h.renderIndexError(c, in.SKUs, "no se pudieron serializar los resultados")
	}

	return c.Render("views/resultados", fiber.Map{
		"RunID":    out.RunID,
		"Rows":     out.Rows,
		"Summary":  out.Summary,
		"RowsJSON": string(rowsJSON),
	})
}

// ExportForm atiende los botones de descarga de la página de resultados:
// recibe las filas como JSON en un campo del formulario y delega en el
// usecase de exportación.
func (h *UIHandler) ExportForm(c *fiber.Ctx) error {
	var rows []dto.ValidationRowResponse
	if err := json.Unmarshal([]byte(c.FormValue("rows")), &rows); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("filas ilegibles; vuelva a correr la validación")
	}

	file, err := h.export.Export(c.UserContext(), dto.ExportRequest{
		Format:     c.FormValue("format"),
		OnlyFailed: c.FormValue("only_failed") == "on",
		Rows:       rows,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("exportación falló: " + err.Error())
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Content)
}

func (h *UIHandler) renderIndexError(c *fiber.Ctx, skus, msg string) error {
	return c.Render("views/index", fiber.Map{
		"BaseURL":       h.ui.BaseURL,
		"MinLevels":     h.ui.MinLevels,
		"HasEnvCookies": h.ui.HasEnvCookies,
		"SKUs":          skus,
		"Error":         msg,
	})
}
