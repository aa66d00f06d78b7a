package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/jhoicas/catalogacion-api/internal/application/dto"
	"github.com/jhoicas/catalogacion-api/internal/application/ports"
	"github.com/jhoicas/catalogacion-api/internal/domain"
	"github.com/jhoicas/catalogacion-api/internal/domain/taxonomy"
)

// Formatos de exportación soportados.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportUseCase exporta filas de resultados ya validadas a CSV o PDF.
// Recibe las filas en el request: el servicio no guarda corridas, así que
// exportar jamás repite lookups contra el sitio.
type ExportUseCase struct {
	reports ports.ReportGenerator
}

// NewExportUseCase construye el caso de uso.
func NewExportUseCase(reports ports.ReportGenerator) *ExportUseCase {
	return &ExportUseCase{reports: reports}
}

// ExportFile es el archivo generado listo para descarga.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Export genera el archivo según el formato pedido. OnlyFailed filtra a las
// filas con estado distinto de PASS antes de formatear.
func (uc *ExportUseCase) Export(ctx context.Context, in dto.ExportRequest) (*ExportFile, error) {
	rows := in.Rows
	if in.OnlyFailed {
		rows = onlyFailedRows(rows)
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	switch in.Format {
	case FormatCSV:
		content, err := rowsToCSV(rows)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Content:     content,
			ContentType: "text/csv; charset=utf-8",
			Filename:    "catalogacion.csv",
		}, nil

	case FormatPDF:
		content, err := uc.reports.GenerateValidationReport(ctx, rows, summarize(in.Rows))
		if err != nil {
			return nil, fmt.Errorf("export: generar PDF: %w", err)
		}
		return &ExportFile{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    "catalogacion.pdf",
		}, nil

	default:
		return nil, fmt.Errorf("export: formato no soportado %q: %w", in.Format, domain.ErrInvalidInput)
	}
}

// csvColumns en el orden del informe operativo del equipo de catálogo.
var csvColumns = []string{"SKU", "Estado", "Motivo", "Observación", "Breadcrumb_limpio", "Breadcrumb_crudo", "Fuente", "URL"}

func rowsToCSV(rows []dto.ValidationRowResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvColumns); err != nil {
		return nil, fmt.Errorf("export: escribir cabecera CSV: %w", err)
	}
	for _, r := range rows {
		record := []string{r.SKU, r.Status, r.Reason, r.Observation, r.Breadcrumb, r.BreadcrumbRaw, r.TaxonomySource, r.URL}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("export: escribir fila CSV de %s: %w", r.SKU, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: finalizar CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func onlyFailedRows(rows []dto.ValidationRowResponse) []dto.ValidationRowResponse {
	out := make([]dto.ValidationRowResponse, 0, len(rows))
	for _, r := range rows {
		if taxonomy.Status(r.Status) != taxonomy.StatusPass {
			out = append(out, r)
		}
	}
	return out
}

// summarize recalcula los contadores desde las filas completas (el PDF
// muestra el resumen del lote aunque la tabla venga filtrada).
func summarize(rows []dto.ValidationRowResponse) dto.BatchSummaryResponse {
	var s dto.BatchSummaryResponse
	for _, r := range rows {
		s.Total++
		switch taxonomy.Status(r.Status) {
		case taxonomy.StatusPass:
			s.Catalogados++
		case taxonomy.StatusNotFound:
			s.NoEncontrados++
		default:
			s.NoCatalogados++
		}
	}
	return s
}
