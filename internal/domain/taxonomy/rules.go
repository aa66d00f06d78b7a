package taxonomy

import (
	"fmt"
	"strings"
)

// Status resultado de la validación de un SKU. Valores estables de wire.
type Status string

const (
	StatusPass     Status = "PASS"      // catalogado correctamente
	StatusFail     Status = "FAIL"      // catalogación insuficiente o hoja miscelánea
	StatusNotFound Status = "NOT_FOUND" // el SKU no existe en el catálogo
)

// Motivos canónicos. La observación complementa, el motivo clasifica.
const (
	ReasonNotFound = "SKU no encontrado en el catálogo"
	ReasonMiscLeaf = "la categoría hoja es genérica (miscelánea)"

	obsOnlyNoise = "el breadcrumb indica solo Home/Inicio"
	obsOneLevel  = "solo 1 nivel útil en el breadcrumb"
)

// Lookup es el resultado de la consulta al catálogo tal como lo ven las
// reglas: variante etiquetada {niveles | no encontrado | error}.
type Lookup struct {
	NotFound bool
	Err      error    // error de red/parseo; el diagnóstico se surfa al usuario
	Levels   []string // breadcrumb crudo tal como lo reportó el sitio
}

// Verdict es el veredicto por SKU.
type Verdict struct {
	Status      Status
	Reason      string // vacío cuando Status es PASS
	Observation string // detalle opcional para diagnóstico
	Raw         Path   // niveles tal como llegaron
	Clean       Path   // niveles tras Normalize
}

// RuleSet parametriza la regla de catalogación.
type RuleSet struct {
	MinLevels   int      // niveles útiles mínimos (2 en producción)
	MiscMarkers []string // substrings de hoja miscelánea, comparados plegados
}

// DefaultRuleSet reproduce la regla operativa del equipo de catálogo.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		MinLevels:   2,
		MiscMarkers: []string{"otros", "miscel", "varios", "variedad"},
	}
}

// Evaluate aplica las reglas en orden estricto:
//  1. no encontrado → NOT_FOUND;
//  2. error de lookup → FAIL con el diagnóstico textual;
//  3. menos de MinLevels niveles útiles → FAIL por profundidad;
//  4. hoja con marcador miscelánea → FAIL por hoja genérica;
//  5. si no, PASS.
//
// El marcador se evalúa solo contra la hoja: niveles intermedios tipo
// "Otros deportes" no descalifican un path con hoja específica.
func (rs RuleSet) Evaluate(lk Lookup) Verdict {
	if lk.NotFound {
		return Verdict{Status: StatusNotFound, Reason: ReasonNotFound}
	}
	if lk.Err != nil {
		return Verdict{Status: StatusFail, Reason: lk.Err.Error()}
	}

	clean, onlyNoise := Normalize(lk.Levels)
	v := Verdict{Raw: Path(lk.Levels), Clean: clean}

	if len(clean) < rs.MinLevels {
		v.Status = StatusFail
		v.Reason = rs.depthReason()
		switch {
		case onlyNoise:
			v.Observation = obsOnlyNoise
		case len(clean) == 1:
			v.Observation = obsOneLevel
		}
		return v
	}

	if marker := rs.miscMarkerIn(clean.Leaf()); marker != "" {
		v.Status = StatusFail
		v.Reason = ReasonMiscLeaf
		v.Observation = fmt.Sprintf("la hoja %q contiene el marcador %q", clean.Leaf(), marker)
		return v
	}

	v.Status = StatusPass
	return v
}

// depthReason arma el motivo de profundidad según el mínimo configurado.
func (rs RuleSet) depthReason() string {
	if rs.MinLevels == 2 {
		return "menos de dos niveles útiles de categoría"
	}
	return fmt.Sprintf("menos de %d niveles útiles de categoría", rs.MinLevels)
}

// miscMarkerIn devuelve el marcador que matchea la hoja, o "" si ninguno.
// Comparación por substring, insensible a mayúsculas y tildes.
func (rs RuleSet) miscMarkerIn(leaf string) string {
	folded := Fold(leaf)
	for _, marker := range rs.MiscMarkers {
		if m := Fold(marker); m != "" && strings.Contains(folded, m) {
			return marker
		}
	}
	return ""
}
