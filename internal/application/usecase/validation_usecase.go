package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/catalogacion-api/internal/application/dto"
	"github.com/jhoicas/catalogacion-api/internal/application/ports"
	"github.com/jhoicas/catalogacion-api/internal/domain"
	"github.com/jhoicas/catalogacion-api/internal/domain/taxonomy"
	"github.com/jhoicas/catalogacion-api/pkg/cookies"
	"github.com/jhoicas/catalogacion-api/pkg/logger"
)

// ValidationUseCase valida la catalogación de un lote de SKUs contra el
// catálogo externo. Procesa los SKUs en secuencia y en el orden de entrada;
// el fallo de un SKU nunca aborta el lote.
type ValidationUseCase struct {
	gateway ports.CatalogGateway
	rules   taxonomy.RuleSet
	delay   time.Duration // pausa entre SKUs para no gatillar bloqueos del sitio
	log     *logger.Logger
}

// NewValidationUseCase construye el caso de uso.
func NewValidationUseCase(gateway ports.CatalogGateway, rules taxonomy.RuleSet, delay time.Duration, log *logger.Logger) *ValidationUseCase {
	return &ValidationUseCase{gateway: gateway, rules: rules, delay: delay, log: log}
}

// ValidateBatch corre la validación sobre el texto libre de SKUs.
// Devuelve una fila por SKU de entrada, en el mismo orden, duplicados
// incluidos. El resumen siempre cuenta el lote completo aunque OnlyFailed
// filtre filas de la respuesta.
func (uc *ValidationUseCase) ValidateBatch(ctx context.Context, in dto.ValidateBatchRequest) (*dto.ValidateBatchResponse, error) {
	skus := splitSKUs(in.SKUs)
	if len(skus) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	gateway := uc.gateway
	if header := strings.TrimSpace(in.CookieHeader); header != "" {
		gateway = gateway.WithCookies(cookies.ParseHeader(header))
	}

	runID := uuid.New().String()
	log := uc.log.With().Str("run_id", runID).Logger()
	log.Info().Int("skus", len(skus)).Msg("iniciando corrida de validación")

	resp := &dto.ValidateBatchResponse{RunID: runID}
	for i, sku := range skus {
		if i > 0 && uc.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(uc.delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row := uc.validateOne(ctx, gateway, sku)
		switch taxonomy.Status(row.Status) {
		case taxonomy.StatusPass:
			resp.Summary.Catalogados++
		case taxonomy.StatusNotFound:
			resp.Summary.NoEncontrados++
		default:
			resp.Summary.NoCatalogados++
		}
		resp.Summary.Total++

		log.Debug().
			Str("sku", sku).
			Str("status", row.Status).
			Str("breadcrumb", row.Breadcrumb).
			Msg("SKU validado")

		if in.OnlyFailed && taxonomy.Status(row.Status) == taxonomy.StatusPass {
			continue
		}
		resp.Rows = append(resp.Rows, row)
	}

	log.Info().
		Int("total", resp.Summary.Total).
		Int("catalogados", resp.Summary.Catalogados).
		Int("no_catalogados", resp.Summary.NoCatalogados).
		Int("no_encontrados", resp.Summary.NoEncontrados).
		Msg("corrida de validación terminada")

	return resp, nil
}

// validateOne consulta y evalúa un SKU. Errores de lookup se convierten en
// fila FAIL con el diagnóstico; jamás se propagan como fallo del lote.
func (uc *ValidationUseCase) validateOne(ctx context.Context, gateway ports.CatalogGateway, sku string) dto.ValidationRowResponse {
	var lk taxonomy.Lookup
	var source, url string

	result, err := gateway.Lookup(ctx, sku)
	switch {
	case err != nil:
		uc.log.Warn().Str("sku", sku).Err(err).Msg("lookup de catálogo falló")
		lk.Err = err
	case result.NotFound:
		lk.NotFound = true
	default:
		lk.Levels = result.Levels
		source = result.Source
		url = result.URL
	}

	v := uc.rules.Evaluate(lk)
	return dto.ValidationRowResponse{
		SKU:            sku,
		Status:         string(v.Status),
		Reason:         v.Reason,
		Observation:    v.Observation,
		Breadcrumb:     v.Clean.String(),
		BreadcrumbRaw:  v.Raw.String(),
		TaxonomySource: source,
		URL:            url,
	}
}

// splitSKUs separa el texto libre en SKUs: saltos de línea o comas, con
// trim y descarte de vacíos. No deduplica: cada ocurrencia listada se
// valida y se muestra.
func splitSKUs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
