package ports

import "context"

// LookupResult resultado de la consulta de un SKU al catálogo externo.
// Variante etiquetada: NotFound=true significa que no se pudo resolver un
// PDP para el SKU; en caso contrario Levels trae el breadcrumb crudo
// (puede ser vacío: encontrado pero sin taxonomía).
type LookupResult struct {
	NotFound bool
	Levels   []string // breadcrumb crudo, raíz→hoja, sin reordenar ni limpiar
	Source   string   // fuente de extracción: jsonld_breadcrumb, microdata, datalayer, dom…
	URL      string   // URL del PDP consultado
}

// CatalogGateway define el puerto de salida hacia el catálogo del sitio.
// Cualquier adaptador (Ripley, mock de tests) debe implementar esta interfaz.
// El contexto debe llevar timeout: la llamada hace red hacia un tercero.
type CatalogGateway interface {
	// Lookup resuelve la taxonomía asignada a un SKU. Un error indica fallo
	// de red, bloqueo o respuesta no parseable; "SKU inexistente" no es un
	// error sino LookupResult{NotFound: true}.
	Lookup(ctx context.Context, sku string) (*LookupResult, error)

	// WithCookies devuelve una vista del gateway que añade las cookies de
	// sesión dadas a cada petición (cookies pegadas en la UI por corrida).
	WithCookies(cookies map[string]string) CatalogGateway
}
