package dto

// ValidateBatchRequest entrada para validar un lote de SKUs.
// SKUs es texto libre: un SKU por línea, o separados por comas.
type ValidateBatchRequest struct {
	SKUs         string `json:"skus" validate:"required,min=1"`
	CookieHeader string `json:"cookie_header"` // opcional; se parsea, no se guarda
	OnlyFailed   bool   `json:"only_failed"`   // filtra la respuesta a filas != PASS
}

// ValidationRowResponse una fila de resultado por SKU de entrada.
type ValidationRowResponse struct {
	SKU            string `json:"sku"`
	Status         string `json:"status"` // PASS, FAIL, NOT_FOUND
	Reason         string `json:"reason,omitempty"`
	Observation    string `json:"observation,omitempty"`
	Breadcrumb     string `json:"breadcrumb,omitempty"`     // niveles útiles: "Hogar > Cocina > Ollas"
	BreadcrumbRaw  string `json:"breadcrumb_raw,omitempty"` // niveles tal como los reportó el sitio
	TaxonomySource string `json:"taxonomy_source,omitempty"`
	URL            string `json:"url,omitempty"` // PDP desde donde se extrajo la taxonomía
}

// BatchSummaryResponse contadores del lote.
type BatchSummaryResponse struct {
	Total         int `json:"total"`
	Catalogados   int `json:"catalogados"`
	NoCatalogados int `json:"no_catalogados"`
	NoEncontrados int `json:"no_encontrados"`
}

// ValidateBatchResponse salida de una corrida de validación.
type ValidateBatchResponse struct {
	RunID   string                  `json:"run_id"`
	Rows    []ValidationRowResponse `json:"rows"`
	Summary BatchSummaryResponse    `json:"summary"`
}

// ExportRequest entrada para exportar filas ya validadas.
// Las filas viajan en el request: el servicio no guarda estado entre corridas.
type ExportRequest struct {
	Format     string                  `json:"format" validate:"required,oneof=csv pdf"`
	OnlyFailed bool                    `json:"only_failed"`
	Rows       []ValidationRowResponse `json:"rows" validate:"required,min=1"`
}
