// Package cookies parsea cookies de sesión pegadas por el operador.
//
// El sitio del catálogo bloquea scraping anónimo; el operador copia el header
// "cookie:" de su navegador (o un JSON {"k":"v"}) y la aplicación lo reenvía
// en cada petición. Las cookies nunca se persisten.
package cookies

import (
	"encoding/json"
	"strings"
)

// ParseHeader convierte 'k1=v1; k2=v2; k3=v3' en un mapa clave→valor.
// Ignora pares vacíos y espacios; un prefijo "cookie:" se tolera.
func ParseHeader(header string) map[string]string {
	header = strings.TrimSpace(header)
	if low := strings.ToLower(header); strings.HasPrefix(low, "cookie:") {
		header = strings.TrimSpace(header[len("cookie:"):])
	}

	out := map[string]string{}
	for _, part := range strings.Split(header, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// ParseJSON convierte '{"k1":"v1","k2":"v2"}' en un mapa clave→valor.
// Entradas no parseables o valores no string se descartan en silencio:
// el origen es texto pegado por un humano, no un contrato.
func ParseJSON(raw string) map[string]string {
	out := map[string]string{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return out
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return out
	}
	for k, v := range obj {
		if s, ok := v.(string); ok && k != "" {
			out[k] = s
		}
	}
	return out
}

// Merge combina varias fuentes de cookies; las últimas sobreescriben claves
// de las primeras (ej. JSON de env sobre header de env, UI sobre ambas).
func Merge(sources ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, src := range sources {
		for k, v := range src {
			out[k] = v
		}
	}
	return out
}
