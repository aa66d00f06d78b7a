package usecase_test

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogacion-api/internal/application/dto"
	"github.com/jhoicas/catalogacion-api/internal/application/usecase"
	"github.com/jhoicas/catalogacion-api/internal/domain"
)

type fakeReportGenerator struct {
	gotRows    []dto.ValidationRowResponse
	gotSummary dto.BatchSummaryResponse
	err        error
}

func (g *fakeReportGenerator) GenerateValidationReport(
	_ context.Context,
	rows []dto.ValidationRowResponse,
	summary dto.BatchSummaryResponse,
) ([]byte, error) {
	g.gotRows = rows
	g.gotSummary = summary
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.7 fake"), nil
}

func sampleRows() []dto.ValidationRowResponse {
	return []dto.ValidationRowResponse{
		{SKU: "1001", Status: "PASS", Breadcrumb: "Hogar > Cocina > Ollas", TaxonomySource: "jsonld_breadcrumb", URL: "https://x/p"},
		{SKU: "1003", Status: "FAIL", Reason: "la categoría hoja es genérica (miscelánea)", Breadcrumb: "Hogar > Otros"},
		{SKU: "9999", Status: "NOT_FOUND", Reason: "SKU no encontrado en el catálogo"},
	}
}

func TestExport_CSV_ColumnasYFilas(t *testing.T) {
	uc := usecase.NewExportUseCase(&fakeReportGenerator{})

	file, err := uc.Export(context.Background(), dto.ExportRequest{Format: "csv", Rows: sampleRows()})
	require.NoError(t, err)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	assert.Equal(t, "catalogacion.csv", file.Filename)

	records, err := csv.NewReader(strings.NewReader(string(file.Content))).ReadAll()
	require.NoError(t, err, "el CSV generado debe ser parseable")
	require.Len(t, records, 4, "cabecera + 3 filas")
	assert.Equal(t, []string{"SKU", "Estado", "Motivo", "Observación", "Breadcrumb_limpio", "Breadcrumb_crudo", "Fuente", "URL"}, records[0])
	assert.Equal(t, "1001", records[1][0])
	assert.Equal(t, "PASS", records[1][1])
	assert.Equal(t, "Hogar > Otros", records[2][4])
	assert.Equal(t, "NOT_FOUND", records[3][1])
}

func TestExport_CSV_SoloNoCatalogados(t *testing.T) {
	uc := usecase.NewExportUseCase(&fakeReportGenerator{})

	file, err := uc.Export(context.Background(), dto.ExportRequest{
		Format:     "csv",
		OnlyFailed: true,
		Rows:       sampleRows(),
	})
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(file.Content))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "cabecera + FAIL + NOT_FOUND; el PASS se filtra")
	assert.Equal(t, "1003", records[1][0])
	assert.Equal(t, "9999", records[2][0])
}

func TestExport_PDF_ResumenDelLoteCompleto(t *testing.T) {
	gen := &fakeReportGenerator{}
	uc := usecase.NewExportUseCase(gen)

	file, err := uc.Export(context.Background(), dto.ExportRequest{
		Format:     "pdf",
		OnlyFailed: true,
		Rows:       sampleRows(),
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "catalogacion.pdf", file.Filename)

	assert.Len(t, gen.gotRows, 2, "la tabla del PDF recibe las filas filtradas")
	assert.Equal(t, dto.BatchSummaryResponse{Total: 3, Catalogados: 1, NoCatalogados: 1, NoEncontrados: 1},
		gen.gotSummary, "el resumen se calcula sobre el lote completo, no el filtrado")
}

func TestExport_PDF_ErrorDelGenerador(t *testing.T) {
	uc := usecase.NewExportUseCase(&fakeReportGenerator{err: errors.New("fuente no disponible")})

	_, err := uc.Export(context.Background(), dto.ExportRequest{Format: "pdf", Rows: sampleRows()})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuente no disponible")
}

func TestExport_FormatoDesconocido(t *testing.T) {
	uc := usecase.NewExportUseCase(&fakeReportGenerator{})

	_, err := uc.Export(context.Background(), dto.ExportRequest{Format: "xlsx", Rows: sampleRows()})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_SinFilas(t *testing.T) {
	uc := usecase.NewExportUseCase(&fakeReportGenerator{})

	_, err := uc.Export(context.Background(), dto.ExportRequest{Format: "csv", Rows: nil})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)

	// Todas PASS + only_failed deja el conjunto vacío.
	_, err = uc.Export(context.Background(), dto.ExportRequest{
		Format:     "csv",
		OnlyFailed: true,
		Rows:       []dto.ValidationRowResponse{{SKU: "1", Status: "PASS"}},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}
