package domain

import "errors"

// Errores de dominio (sin dependencias externas). "SKU no encontrado" no es
// un error sino un estado del veredicto; ver taxonomy.StatusNotFound.
var (
	ErrInvalidInput = errors.New("entrada inválida")
	ErrEmptyBatch   = errors.New("el lote no contiene SKUs")
)
