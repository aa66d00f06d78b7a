// Package pdf implementa el informe PDF de una corrida de validación de
// catalogación.
//
// Layout de la página A4 apaisada:
//
//	┌──────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  RESUMEN: Total | Catalogados | No catalogados | No encontr. │
//	│  ──────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Estado | Motivo | Breadcrumb | Fuente          │
//	└──────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/catalogacion-api/internal/application/dto"
	"github.com/jhoicas/catalogacion-api/internal/application/ports"
	"github.com/jhoicas/catalogacion-api/internal/domain/taxonomy"
)

// Verificar en tiempo de compilación que el generador implementa el puerto.
var _ ports.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorFail    = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorPass    = &props.Color{Red: 20, Green: 120, Blue: 50}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateValidationReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateValidationReport(
	_ context.Context,
	rows []dto.ValidationRowResponse,
	summary dto.BatchSummaryResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Validación de Catalogación", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow())
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range rows {
		m.AddRows(tableRow(r))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow() core.Row {
	fecha := time.Now().Format("02/01/2006 15:04")
	return row.New(12).Add(
		col.New(8).Add(
			text.New("Validación de Catalogación — simple.ripley.cl", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+fecha, props.Text{
				Size: 9, Top: 4, Color: colorGray,
			}),
		),
	)
}

func summaryRow(s dto.BatchSummaryResponse) core.Row {
	metric := func(label string, value int, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1}),
			text.New(fmt.Sprintf("%d", value), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: color, Top: 5,
			}),
		)
	}
	return row.New(14).Add(
		metric("Total SKUs", s.Total, colorPrimary),
		metric("Catalogados", s.Catalogados, colorPass),
		metric("No catalogados", s.NoCatalogados, colorFail),
		metric("No encontrados", s.NoEncontrados, colorGray),
	)
}

// Anchos de columna (grid de 12): SKU 2, Estado 1, Motivo 3, Breadcrumb 4,
// Fuente 2. La URL se omite (no cabe legible; queda en el CSV).
func tableHeaderRow() core.Row {
	header := func(size int, label string) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(7).Add(
		header(2, "SKU"),
		header(1, "Estado"),
		header(3, "Motivo"),
		header(4, "Breadcrumb"),
		header(2, "Fuente"),
	)
}

func tableRow(r dto.ValidationRowResponse) core.Row {
	statusColor := colorFail
	if taxonomy.Status(r.Status) == taxonomy.StatusPass {
		statusColor = colorPass
	}

	motivo := r.Reason
	if r.Observation != "" {
		motivo = fmt.Sprintf("%s (%s)", r.Reason, r.Observation)
	}
	breadcrumb := r.Breadcrumb
	if breadcrumb == "" {
		breadcrumb = r.BreadcrumbRaw
	}

	cell := func(size int, value string, color *props.Color) core.Col {
		return col.New(size).Add(text.New(value, props.Text{Size: 7, Top: 1, Color: color}))
	}
	return row.New(6).Add(
		cell(2, r.SKU, nil),
		cell(1, r.Status, statusColor),
		cell(3, motivo, nil),
		cell(4, breadcrumb, nil),
		cell(2, r.TaxonomySource, colorGray),
	)
}
