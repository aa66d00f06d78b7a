// Package taxonomy modela la taxonomía de categorías de un SKU (breadcrumb
// root→hoja) y la regla de catalogación que decide si el SKU está bien
// catalogado en el sitio.
package taxonomy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Path es la secuencia ordenada de niveles de categoría, de raíz a hoja.
type Path []string

// Leaf devuelve el último nivel (el más específico) o "" si el path es vacío.
func (p Path) Leaf() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// String representa el path como breadcrumb legible: "Hogar > Cocina > Ollas".
func (p Path) String() string {
	return strings.Join(p, " > ")
}

// separatorTokens son glifos que los sitios intercalan entre niveles y que a
// veces llegan como "niveles" propios al extraer del DOM.
var separatorTokens = map[string]struct{}{
	">": {}, "/": {}, "|": {}, "›": {}, "»": {}, "•": {},
}

// noiseWords son niveles sin valor taxonómico (raíz del sitio, páginas de
// búsqueda). Se comparan ya plegados (minúsculas, sin tildes).
var noiseWords = map[string]struct{}{
	"home": {}, "inicio": {}, "busqueda": {}, "resultados": {}, "search": {}, "results": {},
}

// Normalize limpia un breadcrumb crudo: descarta niveles vacíos, separadores
// y ruido (Home/Inicio/Búsqueda…), y colapsa duplicados consecutivos.
// onlyNoise es true cuando el crudo traía niveles pero todos eran ruido
// (el caso "breadcrumb con solo Home/Inicio").
func Normalize(raw []string) (clean Path, onlyNoise bool) {
	hadAny := false
	for _, level := range raw {
		t := strings.TrimSpace(level)
		if t == "" {
			continue
		}
		hadAny = true
		if _, sep := separatorTokens[t]; sep {
			continue
		}
		if _, noise := noiseWords[Fold(t)]; noise {
			continue
		}
		if len(clean) == 0 || clean[len(clean)-1] != t {
			clean = append(clean, t)
		}
	}
	return clean, len(clean) == 0 && hadAny
}

// foldTransformer descompone (NFD), elimina marcas diacríticas y recompone.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold pliega un texto para comparación: minúsculas y sin tildes
// ("Búsqueda" → "busqueda"). Si la transformación falla se conserva el
// texto en minúsculas; nunca se pierde la comparación completa.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return folded
}
