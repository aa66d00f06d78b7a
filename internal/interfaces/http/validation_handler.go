package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogacion-api/internal/application/dto"
	"github.com/jhoicas/catalogacion-api/internal/application/usecase"
	"github.com/jhoicas/catalogacion-api/internal/domain"
)

// ValidationHandler maneja las peticiones JSON de validación de catalogación.
type ValidationHandler struct {
	validation *usecase.ValidationUseCase
	export     *usecase.ExportUseCase
}

// NewValidationHandler construye el handler.
func NewValidationHandler(validation *usecase.ValidationUseCase, export *usecase.ExportUseCase) *ValidationHandler {
	return &ValidationHandler{validation: validation, export: export}
}

// ValidateBatch godoc
// @Summary      Validar catalogación de un lote de SKUs
// @Tags         validaciones
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateBatchRequest  true  "SKUs en texto libre"
// @Success      200   {object}  dto.ValidateBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/validaciones [post]
func (h *ValidationHandler) ValidateBatch(c *fiber.Ctx) error {
	var in dto.ValidateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.SKUs) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "skus es requerido"})
	}

	out, err := h.validation.ValidateBatch(c.UserContext(), in)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyBatch) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_BATCH", Message: "el lote no contiene SKUs"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar filas validadas a CSV o PDF
// @Tags         validaciones
// @Accept       json
// @Produce      octet-stream
// @Param        body  body  dto.ExportRequest  true  "Filas y formato"
// @Success      200   {file}    file
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/validaciones/export [post]
func (h *ValidationHandler) Export(c *fiber.Ctx) error {
	var in dto.ExportRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	file, err := h.export.Export(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "formato debe ser csv o pdf"})
		case errors.Is(err, domain.ErrEmptyBatch):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_BATCH", Message: "no hay filas para exportar"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Content)
}
