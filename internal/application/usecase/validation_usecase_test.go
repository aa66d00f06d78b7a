package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogacion-api/internal/application/dto"
	"github.com/jhoicas/catalogacion-api/internal/application/ports"
	"github.com/jhoicas/catalogacion-api/internal/application/usecase"
	"github.com/jhoicas/catalogacion-api/internal/domain"
	"github.com/jhoicas/catalogacion-api/internal/domain/taxonomy"
	"github.com/jhoicas/catalogacion-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// fakeGateway: gateway de catálogo en memoria para los tests del usecase.
// ──────────────────────────────────────────────────────────────────────────────

type fakeOutcome struct {
	result *ports.LookupResult
	err    error
}

type fakeGateway struct {
	outcomes map[string]fakeOutcome
	calls    []string
	cookies  map[string]string
}

func (g *fakeGateway) Lookup(_ context.Context, sku string) (*ports.LookupResult, error) {
	g.calls = append(g.calls, sku)
	out, ok := g.outcomes[sku]
	if !ok {
		return &ports.LookupResult{NotFound: true}, nil
	}
	return out.result, out.err
}

func (g *fakeGateway) WithCookies(cookies map[string]string) ports.CatalogGateway {
	g.cookies = cookies
	return g
}

func found(levels ...string) fakeOutcome {
	return fakeOutcome{result: &ports.LookupResult{
		Levels: levels,
		Source: "jsonld_breadcrumb",
		URL:    "https://simple.ripley.cl/producto-p",
	}}
}

func newUC(g *fakeGateway) *usecase.ValidationUseCase {
	return usecase.NewValidationUseCase(g, taxonomy.DefaultRuleSet(), 0, logger.NewNop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de referencia de la regla de catalogación.
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateBatch_PathProfundo_Pass(t *testing.T) {
	g := &fakeGateway{outcomes: map[string]fakeOutcome{
		"1001": found("Hogar", "Cocina", "Ollas"),
	}}

	resp, err := newUC(g).ValidateBatch(context.Background(), dto.ValidateBatchRequest{SKUs: "1001"})

	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "PASS", resp.Rows[0].Status)
	assert.Equal(t, "Hogar > Cocina > Ollas", resp.Rows[0].Breadcrumb)
	assert.Equal(t, "jsonld_breadcrumb", resp.Rows[0].TaxonomySource)
	assert.NotEmpty(t, resp.RunID)
}

func TestValidateBatch_UnNivel_FailPorProfundidad(t *testing.T) {
	g := &fakeGateway{outcomes: map[string]fakeOutcome{
		"1002": found("Hogar"),
	}}

	resp, err := newUC(g).ValidateBatch(context.Background(), dto.ValidateBatchRequest{SKUs: "1002"})

	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "FAIL", resp.Rows[0].Status)
	assert.Equal(t, "menos de dos niveles útiles de categoría", resp.Rows[0].Reason)
}

func TestValidateBatch_HojaOtros_FailPorHoja(t *testing.T) {
	g := &fakeGateway{outcomes: map[string]fakeOutcome{
		"1003": found("Hogar", "Otros"),
	}}

	resp, err := newUC(g).ValidateBatch(context.Background(), dto.ValidateBatchRequest{SKUs: "1003"})

	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "FAIL", resp.Rows[0].Status)
	assert.Equal(t, taxonomy.ReasonMiscLeaf, resp.Rows[0].Reason)
}

func TestValidateBatch_SKUInexistente_NotFound(t *testing.T) {
	g := &fakeGateway{outcomes: map[string]fakeOutcome{}}

	resp, err := newUC(g).ValidateBatch(context.Background(), dto.ValidateBatchRequest{SKUs: "9999"})

	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "NOT_FOUND", resp.Rows[0].Status)
	assert.Equal(t, taxonomy.ReasonNotFound, resp.Rows[0].Reason)
	assert.Equal(t, 1, resp.Summary.NoEncontrados)
}

func TestValidateBatch_FalloDeRedEnUnSKU_NoAbortaElLote(t *testing.T) {
	g := &fakeGateway{outcomes: map[string]fakeOutcome{
		"1001": found("Hogar", "Cocina", "Ollas"),
		"1002": {err: errors.New("catálogo: GET /busca: connection refused")},
	}}

	resp, err := newUC(g).ValidateBatch(context.Background(), dto.ValidateBatchRequest{SKUs: "1001\n1002"})

	require.NoError(t, err, "el fallo de un SKU no es fallo del lote")
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "PASS", resp.Rows[0].Status)
	assert.Equal(t, "FAIL", resp.Rows[1].Status)
	assert.Contains(t, resp.Rows[1].Reason, "connection refused",
		"el diagnóstico de red se surfa en la fila")
	assert.Equal(t, dto.BatchSummaryResponse{Total: 2, Catalogados: 1, NoCatalogados: 1}, resp.Summary)
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden, duplicados, filtrado y entrada.
// ──────────────────────────────────────────────────────────────────────────────

func TestValidateBatch_PreservaOrdenYDuplicados(t *testing.T) {
	g := &fakeGateway{outcomes: map[string]fakeOutcome{
		"A": found("Hogar", "Cocina"),
		"B": found("Hogar"),
	}}

	resp, err := newUC(g).ValidateBatch(context.Background(), dto.ValidateBatchRequest{
		SKUs: "B, A\nB\n A ",
	})

	require.NoError(t, err)
	require.Len(t, resp.Rows, 4)
	var skus []string
	for _, r := range resp.Rows {
		skus = append(skus, r.SKU)
	}
	assert.Equal(t, []string{"B", "A", "B", "A"}, skus,
		"cada ocurrencia listada se valida y se muestra, en orden de entrada")
	assert.Equal(t, []string{"B", "A", "B", "A"}, g.calls)
	assert.Equal(t, 4, resp.Summary.Total)
}

func TestValidateBatch_OnlyFailed_FiltraFilasPeroNoElResumen(t *testing.T) {
	g := &fakeGateway{outcomes: map[string]fakeOutcome{
		"OK":  found("Hogar", "Cocina"),
		"BAD": found("Hogar", "Otros"),
	}}

	resp, err := newUC(g).ValidateBatch(context.Background(), dto.ValidateBatchRequest{
		SKUs:       "OK\nBAD",
		OnlyFailed: true,
	})

	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "BAD", resp.Rows[0].SKU)
	assert.Equal(t, 2, resp.Summary.Total, "el resumen cuenta el lote completo")
	assert.Equal(t, 1, resp.Summary.Catalogados)
}

func TestValidateBatch_LoteVacio_Error(t *testing.T) {
	g := &fakeGateway{}

	_, err := newUC(g).ValidateBatch(context.Background(), dto.ValidateBatchRequest{SKUs: " \n , \n"})

	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
	assert.Empty(t, g.calls)
}

func TestValidateBatch_CookiesDeLaUI_LleganAlGateway(t *testing.T) {
	g := &fakeGateway{outcomes: map[string]fakeOutcome{
		"1001": found("Hogar", "Cocina"),
	}}

	_, err := newUC(g).ValidateBatch(context.Background(), dto.ValidateBatchRequest{
		SKUs:         "1001",
		CookieHeader: "JSESSIONID=abc; cf_clearance=xyz",
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]string{"JSESSIONID": "abc", "cf_clearance": "xyz"}, g.cookies)
}

func TestValidateBatch_ContextoCancelado_Abandona(t *testing.T) {
	g := &fakeGateway{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newUC(g).ValidateBatch(ctx, dto.ValidateBatchRequest{SKUs: "1001\n1002"})

	assert.ErrorIs(t, err, context.Canceled)
}
