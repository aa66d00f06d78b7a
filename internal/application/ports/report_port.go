package ports

import (
	"context"

	"github.com/jhoicas/catalogacion-api/internal/application/dto"
)

// ReportGenerator define el puerto de salida para el informe PDF de una
// corrida de validación. El adaptador concreto (Maroto, mock) renderiza las
// filas tal cual; el filtrado es responsabilidad del caller.
type ReportGenerator interface {
	GenerateValidationReport(
		ctx context.Context,
		rows []dto.ValidationRowResponse,
		summary dto.BatchSummaryResponse,
	) ([]byte, error)
}
