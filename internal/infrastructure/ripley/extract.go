package ripley

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
)

// Fuentes de taxonomía, en orden de preferencia. El nombre viaja en el
// resultado para diagnóstico (columna "Fuente" del informe).
const (
	SourceJSONLDBreadcrumb = "jsonld_breadcrumb"
	SourceJSONLDProduct    = "jsonld_product"
	SourceMicrodata        = "microdata"
	SourceDataLayer        = "datalayer"
	SourceNextData         = "nextdata"
	SourceDOM              = "dom"
	SourceNone             = "none"
)

// extractTaxonomy intenta las fuentes en orden y devuelve el primer
// breadcrumb crudo no vacío junto con el nombre de la fuente. Los niveles
// se entregan tal cual; la limpieza (ruido, separadores) es del dominio.
func extractTaxonomy(doc *html.Node) (levels []string, source string) {
	if crumbs := breadcrumbFromJSONLD(doc); len(crumbs) > 0 {
		return crumbs, SourceJSONLDBreadcrumb
	}
	if cat := productCategoryFromJSONLD(doc); cat != "" {
		return splitCategoryString(cat), SourceJSONLDProduct
	}
	if crumbs := breadcrumbFromMicrodata(doc); len(crumbs) > 0 {
		return crumbs, SourceMicrodata
	}
	if cat := categoryFromDataLayer(doc); cat != "" {
		return splitCategoryString(cat), SourceDataLayer
	}
	if crumbs := breadcrumbFromNextData(doc); len(crumbs) > 0 {
		return crumbs, SourceNextData
	}
	if crumbs := breadcrumbFromDOM(doc); len(crumbs) > 0 {
		return crumbs, SourceDOM
	}
	return nil, SourceNone
}

// ── JSON-LD ───────────────────────────────────────────────────────────────────

// jsonLDBlocks devuelve los documentos de todos los <script type="application/ld+json">.
// Bloques con varias líneas de JSON sueltos se intentan línea a línea, como
// hacen algunos tag managers.
func jsonLDBlocks(doc *html.Node) []gjson.Result {
	var blocks []gjson.Result
	for _, node := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "script" && attr(n, "type") == "application/ld+json"
	}) {
		txt := strings.TrimSpace(textContent(node))
		if txt == "" {
			continue
		}
		if json.Valid([]byte(txt)) {
			blocks = append(blocks, gjson.Parse(txt))
			continue
		}
		for _, line := range strings.Split(txt, "\n") {
			if line = strings.TrimSpace(line); line != "" && json.Valid([]byte(line)) {
				blocks = append(blocks, gjson.Parse(line))
			}
		}
	}
	return blocks
}

// breadcrumbFromJSONLD busca un BreadcrumbList (directo, en lista o dentro
// de @graph) y devuelve los nombres de sus itemListElement.
func breadcrumbFromJSONLD(doc *html.Node) []string {
	for _, block := range jsonLDBlocks(doc) {
		for _, obj := range flattenJSONLD(block) {
			if obj.Get("@type").String() != "BreadcrumbList" {
				continue
			}
			var names []string
			obj.Get("itemListElement").ForEach(func(_, it gjson.Result) bool {
				name := it.Get("item.name").String()
				if name == "" {
					name = it.Get("name").String()
				}
				if name = strings.TrimSpace(name); name != "" {
					names = append(names, name)
				}
				return true
			})
			if len(names) > 0 {
				return names
			}
		}
	}
	return nil
}

// productCategoryFromJSONLD devuelve Product.category ("Hogar > Cocina > Ollas").
func productCategoryFromJSONLD(doc *html.Node) string {
	for _, block := range jsonLDBlocks(doc) {
		for _, obj := range flattenJSONLD(block) {
			t := obj.Get("@type").String()
			if t != "Product" && t != "IndividualProduct" {
				continue
			}
			if cat := strings.TrimSpace(obj.Get("category").String()); cat != "" {
				return cat
			}
		}
	}
	return ""
}

// flattenJSONLD aplana un documento JSON-LD: el objeto raíz, los elementos
// de una lista raíz y los nodos de @graph.
func flattenJSONLD(block gjson.Result) []gjson.Result {
	var objs []gjson.Result
	candidates := []gjson.Result{block}
	if block.IsArray() {
		candidates = block.Array()
	}
	for _, c := range candidates {
		if !c.IsObject() {
			continue
		}
		objs = append(objs, c)
		c.Get("@graph").ForEach(func(_, g gjson.Result) bool {
			if g.IsObject() {
				objs = append(objs, g)
			}
			return true
		})
	}
	return objs
}

// categorySeparators separa "Hogar > Cocina / Ollas - Acero" en niveles.
var categorySeparators = regexp.MustCompile(`\s*(?:[>/|›»\\]+|-)\s*`)

func splitCategoryString(cat string) []string {
	parts := categorySeparators.Split(cat, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{cat}
	}
	return out
}

// ── Microdata ─────────────────────────────────────────────────────────────────

// breadcrumbFromMicrodata lee [itemtype*=BreadcrumbList] [itemprop=name].
func breadcrumbFromMicrodata(doc *html.Node) []string {
	var names []string
	for _, list := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && strings.Contains(attr(n, "itemtype"), "BreadcrumbList")
	}) {
		for _, item := range findAll(list, func(n *html.Node) bool {
			return n.Type == html.ElementNode && attr(n, "itemprop") == "name"
		}) {
			if t := collapseSpaces(textContent(item)); t != "" {
				names = append(names, t)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	return nil
}

// ── dataLayer / __NEXT_DATA__ ─────────────────────────────────────────────────

var dataLayerRe = regexp.MustCompile(`dataLayer\s*=\s*(\[[\s\S]*?\])\s*;`)

// categoryFromDataLayer busca en los scripts una asignación dataLayer=[...]
// y extrae category/department/pageCategory del primer evento que lo traiga.
func categoryFromDataLayer(doc *html.Node) string {
	for _, script := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "script"
	}) {
		m := dataLayerRe.FindStringSubmatch(textContent(script))
		if m == nil {
			continue
		}
		var cat string
		gjson.Parse(m[1]).ForEach(func(_, ev gjson.Result) bool {
			for _, key := range []string{"category", "department", "pageCategory"} {
				if v := strings.TrimSpace(ev.Get(key).String()); v != "" {
					cat = v
					return false
				}
			}
			return true
		})
		if cat != "" {
			return cat
		}
	}
	return ""
}

// breadcrumbFromNextData recorre el estado Next.js (<script id="__NEXT_DATA__">)
// buscando claves breadcrumb/breadcrumbs con listas de niveles.
func breadcrumbFromNextData(doc *html.Node) []string {
	for _, script := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "script" && attr(n, "id") == "__NEXT_DATA__"
	}) {
		txt := strings.TrimSpace(textContent(script))
		if txt == "" || !json.Valid([]byte(txt)) {
			continue
		}
		if names := digBreadcrumbs(gjson.Parse(txt)); len(names) > 0 {
			return names
		}
	}
	return nil
}

// digBreadcrumbs baja recursivamente por el JSON acumulando los elementos de
// cualquier lista bajo una clave breadcrumb/breadcrumbs.
func digBreadcrumbs(node gjson.Result) []string {
	var acc []string
	var walk func(r gjson.Result)
	walk = func(r gjson.Result) {
		if r.IsObject() {
			r.ForEach(func(key, value gjson.Result) bool {
				k := strings.ToLower(key.String())
				if value.IsArray() && (k == "breadcrumb" || k == "breadcrumbs") {
					value.ForEach(func(_, it gjson.Result) bool {
						var name string
						switch {
						case it.IsObject():
							for _, field := range []string{"name", "label", "title"} {
								if v := it.Get(field).String(); v != "" {
									name = v
									break
								}
							}
						case it.Type == gjson.String:
							name = it.String()
						}
						if name = strings.TrimSpace(name); name != "" {
							acc = append(acc, name)
						}
						return true
					})
					return true
				}
				walk(value)
				return true
			})
			return
		}
		if r.IsArray() {
			r.ForEach(func(_, it gjson.Result) bool {
				walk(it)
				return true
			})
		}
	}
	walk(node)
	return acc
}

// ── DOM ───────────────────────────────────────────────────────────────────────

// breadcrumbFromDOM busca contenedores de migas de pan
// (nav[aria-label=breadcrumb], .breadcrumb/.breadcrumbs) y junta el texto de
// sus li/a/span, con dedupe consecutivo. Los anidados (li > a) duplican
// texto; el dedupe y el dominio lo absorben.
func breadcrumbFromDOM(doc *html.Node) []string {
	container := findFirst(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		if n.Data == "nav" && strings.EqualFold(attr(n, "aria-label"), "breadcrumb") {
			return true
		}
		switch n.Data {
		case "nav", "ol", "ul", "div", "li":
			return hasClass(n, "breadcrumb") || hasClass(n, "breadcrumbs")
		}
		return false
	})
	if container == nil {
		return nil
	}

	var parts []string
	for _, el := range findAll(container, func(n *html.Node) bool {
		return n.Type == html.ElementNode && (n.Data == "a" || n.Data == "span" || n.Data == "li")
	}) {
		t := collapseSpaces(textContent(el))
		if t == "" {
			continue
		}
		if len(parts) == 0 || parts[len(parts)-1] != t {
			parts = append(parts, t)
		}
	}
	return parts
}

// ── Helpers de árbol HTML ─────────────────────────────────────────────────────

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// findAll devuelve los descendientes (en preorden) que cumplen el predicado.
// No desciende dentro de un nodo que ya matcheó: para li > a basta el texto
// del li.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if match(n) {
			found = n
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	walk(root)
	return found
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

var spacesRe = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(s, " "))
}
