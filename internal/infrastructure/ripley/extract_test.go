package ripley

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseDoc(t *testing.T, raw string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	return doc
}

func TestExtractTaxonomy_JSONLDBreadcrumb(t *testing.T) {
	doc := parseDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@context":"https://schema.org","@type":"BreadcrumbList","itemListElement":[
	  {"@type":"ListItem","position":1,"item":{"@id":"/","name":"Home"}},
	  {"@type":"ListItem","position":2,"item":{"@id":"/hogar","name":"Hogar"}},
	  {"@type":"ListItem","position":3,"name":"Cocina"},
	  {"@type":"ListItem","position":4,"item":{"name":"Ollas"}}
	]}
	</script></head><body></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceJSONLDBreadcrumb, source)
	assert.Equal(t, []string{"Home", "Hogar", "Cocina", "Ollas"}, levels,
		"los niveles llegan crudos; el ruido Home lo limpia el dominio")
}

func TestExtractTaxonomy_JSONLDDentroDeGraph(t *testing.T) {
	doc := parseDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@context":"https://schema.org","@graph":[
	  {"@type":"WebSite","name":"Ripley"},
	  {"@type":"BreadcrumbList","itemListElement":[
	    {"item":{"name":"Deportes"}},{"item":{"name":"Bicicletas"}}
	  ]}
	]}
	</script></head><body></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceJSONLDBreadcrumb, source)
	assert.Equal(t, []string{"Deportes", "Bicicletas"}, levels)
}

func TestExtractTaxonomy_JSONLDProductCategory(t *testing.T) {
	doc := parseDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@type":"Product","name":"Olla 24cm","category":"Hogar > Cocina > Ollas"}
	</script></head><body></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceJSONLDProduct, source)
	assert.Equal(t, []string{"Hogar", "Cocina", "Ollas"}, levels)
}

func TestExtractTaxonomy_Microdata(t *testing.T) {
	doc := parseDoc(t, `<html><body>
	<ol itemscope itemtype="https://schema.org/BreadcrumbList">
	  <li itemprop="itemListElement" itemscope><span itemprop="name">Hogar</span></li>
	  <li itemprop="itemListElement" itemscope><span itemprop="name">Cocina</span></li>
	</ol></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceMicrodata, source)
	assert.Equal(t, []string{"Hogar", "Cocina"}, levels)
}

func TestExtractTaxonomy_DataLayer(t *testing.T) {
	doc := parseDoc(t, `<html><head><script>
	window.x = 1;
	dataLayer = [{"event":"pageview"},{"category":"Hogar/Cocina/Ollas"}];
	</script></head><body></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceDataLayer, source)
	assert.Equal(t, []string{"Hogar", "Cocina", "Ollas"}, levels)
}

func TestExtractTaxonomy_NextData(t *testing.T) {
	doc := parseDoc(t, `<html><body>
	<script id="__NEXT_DATA__" type="application/json">
	{"props":{"pageProps":{"product":{"breadcrumbs":[
	  {"name":"Tecnología","url":"/tecnologia"},
	  {"label":"Audio"},
	  "Parlantes"
	]}}}}
	</script></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceNextData, source)
	assert.Equal(t, []string{"Tecnología", "Audio", "Parlantes"}, levels)
}

func TestExtractTaxonomy_DOMBreadcrumb(t *testing.T) {
	doc := parseDoc(t, `<html><body>
	<nav aria-label="breadcrumb">
	  <ol>
	    <li><a href="/">Inicio</a></li>
	    <li><a href="/hogar">Hogar</a></li>
	    <li><span>›</span></li>
	    <li>Cocina</li>
	  </ol>
	</nav></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceDOM, source)
	assert.Equal(t, []string{"Inicio", "Hogar", "›", "Cocina"}, levels,
		"separadores y ruido se entregan crudos; los limpia Normalize")
}

func TestExtractTaxonomy_ClaseBreadcrumb(t *testing.T) {
	doc := parseDoc(t, `<html><body>
	<div class="breadcrumbs wrapper">
	  <a>Hogar</a><a>Cocina</a><a>Cocina</a>
	</div></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceDOM, source)
	assert.Equal(t, []string{"Hogar", "Cocina"}, levels, "dedupe consecutivo en el DOM")
}

func TestExtractTaxonomy_PrecedenciaJSONLDSobreDOM(t *testing.T) {
	doc := parseDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@type":"BreadcrumbList","itemListElement":[{"item":{"name":"Hogar"}},{"item":{"name":"Cocina"}}]}
	</script></head><body>
	<nav aria-label="breadcrumb"><a>Otra</a><a>Cosa</a></nav>
	</body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceJSONLDBreadcrumb, source)
	assert.Equal(t, []string{"Hogar", "Cocina"}, levels)
}

func TestExtractTaxonomy_SinTaxonomia(t *testing.T) {
	doc := parseDoc(t, `<html><body><h1>Producto</h1><script>var a=1;</script></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Empty(t, levels)
	assert.Equal(t, SourceNone, source)
}

func TestExtractTaxonomy_JSONLDInvalido_NoRevienta(t *testing.T) {
	doc := parseDoc(t, `<html><head>
	<script type="application/ld+json">{esto no es json}</script>
	<script type="application/ld+json">
	{"@type":"BreadcrumbList","itemListElement":[{"item":{"name":"Hogar"}},{"item":{"name":"Cocina"}}]}
	</script></head><body></body></html>`)

	levels, source := extractTaxonomy(doc)
	assert.Equal(t, SourceJSONLDBreadcrumb, source)
	assert.Equal(t, []string{"Hogar", "Cocina"}, levels)
}

func TestSplitCategoryString(t *testing.T) {
	assert.Equal(t, []string{"Hogar", "Cocina"}, splitCategoryString("Hogar > Cocina"))
	assert.Equal(t, []string{"Hogar", "Cocina", "Ollas"}, splitCategoryString("Hogar/Cocina|Ollas"))
	assert.Equal(t, []string{"Hogar"}, splitCategoryString("  Hogar  "))
}
