// Package ripley implementa el gateway de catálogo contra el sitio público
// de Ripley: búsqueda por SKU, resolución del PDP (página de producto) y
// extracción de la taxonomía (breadcrumb) desde el HTML.
package ripley

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/jhoicas/catalogacion-api/internal/application/ports"
	"github.com/jhoicas/catalogacion-api/internal/domain"
	"github.com/jhoicas/catalogacion-api/pkg/config"
	"github.com/jhoicas/catalogacion-api/pkg/cookies"
	"github.com/jhoicas/catalogacion-api/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa CatalogGateway.
var _ ports.CatalogGateway = (*Client)(nil)

// maxHTMLBytes corta páginas anómalas; un PDP normal pesa cientos de KB.
const maxHTMLBytes = 4 << 20

// Client consume el sitio del catálogo con una sesión tipo navegador:
// headers reales y cookies opcionales del operador. No guarda estado entre
// lookups más allá del http.Client compartido.
type Client struct {
	cfg        config.CatalogConfig
	httpClient *http.Client
	cookies    map[string]string
	log        *logger.Logger
}

// NewClient construye el gateway. Las cookies de entorno (COOKIE_HEADER /
// COOKIES_JSON) quedan en la sesión base; COOKIES_JSON sobreescribe claves
// del header.
func NewClient(cfg config.CatalogConfig, log *logger.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			// Timeout de red duro; el caller impone además el del contexto.
			Timeout: cfg.Timeout(),
		},
		cookies: cookies.Merge(
			cookies.ParseHeader(cfg.CookieHeader),
			cookies.ParseJSON(cfg.CookiesJSON),
		),
		log: log,
	}
}

// WithCookies devuelve una vista del cliente con cookies adicionales (las
// pegadas en la UI) sobre las de entorno. El http.Client se comparte.
func (c *Client) WithCookies(extra map[string]string) ports.CatalogGateway {
	clone := *c
	clone.cookies = cookies.Merge(c.cookies, extra)
	return &clone
}

// Lookup resuelve la taxonomía de un SKU: búsqueda → PDP → breadcrumb.
// Prueba las variantes del SKU (tal cual, y sin sufijo "-N") dentro de la
// misma llamada; la primera que entregue un PDP gana.
func (c *Client) Lookup(ctx context.Context, sku string) (*ports.LookupResult, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, fmt.Errorf("catálogo: SKU vacío: %w", domain.ErrInvalidInput)
	}

	for _, cand := range candidateSKUs(sku) {
		result, err := c.lookupCandidate(ctx, cand)
		if err != nil {
			return nil, err
		}
		if result != nil {
			return result, nil
		}
	}

	c.log.Debug().Str("sku", sku).Msg("sin PDP para ninguna variante del SKU")
	return &ports.LookupResult{NotFound: true}, nil
}

// lookupCandidate devuelve nil (sin error) cuando la variante no llegó a un
// PDP; el caller decide si prueba la siguiente.
func (c *Client) lookupCandidate(ctx context.Context, sku string) (*ports.LookupResult, error) {
	searchURL := c.cfg.SearchURL(url.QueryEscape(sku))

	finalURL, doc, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil // 404 en la búsqueda: variante inexistente
	}

	// ¿La búsqueda redirigió directo al PDP?
	if isPDPURL(finalURL) {
		levels, source := extractTaxonomy(doc)
		return &ports.LookupResult{Levels: levels, Source: source, URL: finalURL}, nil
	}

	// Seguimos en el listado (PLP): tomar el primer enlace a PDP.
	pdpURL := firstPDPLink(doc, finalURL)
	if pdpURL == "" {
		return nil, nil
	}

	pdpFinalURL, pdpDoc, err := c.get(ctx, pdpURL)
	if err != nil {
		return nil, err
	}
	if pdpDoc == nil {
		return nil, nil
	}

	levels, source := extractTaxonomy(pdpDoc)
	return &ports.LookupResult{Levels: levels, Source: source, URL: pdpFinalURL}, nil
}

// get hace un GET con headers de navegador y cookies de sesión, siguiendo
// redirects. Devuelve la URL final y el HTML parseado; (nil, nil) en 404.
// Cualquier otra condición anómala (red, bloqueo, HTML ilegible) es error
// con diagnóstico.
func (c *Client) get(ctx context.Context, rawURL string) (string, *html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("catálogo: crear request %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-CL,es;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", nil, fmt.Errorf("catálogo: timeout o cancelación en %s: %w", rawURL, ctx.Err())
		}
		return "", nil, fmt.Errorf("catálogo: GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", nil, nil
	case resp.StatusCode != http.StatusOK:
		// 403/429 suele ser bloqueo anti-bot: cookies vencidas o ritmo alto.
		return "", nil, fmt.Errorf("catálogo: HTTP %d en %s (revise cookies de sesión y CATALOG_DELAY_MS)", resp.StatusCode, rawURL)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxHTMLBytes))
	if err != nil {
		return "", nil, fmt.Errorf("catálogo: HTML ilegible de %s: %w", rawURL, err)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}
	return finalURL, doc, nil
}

// candidateSKUs arma las variantes a probar: el SKU tal cual y, si trae
// sufijo de variante ("MPM10002913810-4"), el SKU base.
func candidateSKUs(sku string) []string {
	cands := []string{sku}
	if base, _, ok := strings.Cut(sku, "-"); ok {
		if base = strings.TrimSpace(base); base != "" && base != sku {
			cands = append(cands, base)
		}
	}
	return cands
}

// isPDPURL reconoce URLs de página de producto del sitio ("...-p" o "/p/").
func isPDPURL(u string) bool {
	return strings.Contains(u, "-p") || strings.Contains(u, "/p/")
}

// firstPDPLink busca en el listado de búsqueda el primer enlace a PDP:
// anchors con href de producto, luego <link rel="canonical"> y og:url si la
// página ya es un PDP encubierto. Resuelve hrefs relativos contra baseURL.
func firstPDPLink(doc *html.Node, baseURL string) string {
	for _, a := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "a" && isPDPURL(attr(n, "href"))
	}) {
		if href := resolveURL(baseURL, attr(a, "href")); href != "" {
			return href
		}
	}

	for _, link := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "link" && attr(n, "rel") == "canonical"
	}) {
		if href := attr(link, "href"); isPDPURL(href) {
			return resolveURL(baseURL, href)
		}
	}

	for _, meta := range findAll(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "meta" && attr(n, "property") == "og:url"
	}) {
		if content := attr(meta, "content"); isPDPURL(content) {
			return resolveURL(baseURL, content)
		}
	}

	return ""
}

func resolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	baseU, err := url.Parse(base)
	if err != nil {
		return href
	}
	refU, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseU.ResolveReference(refU).String()
}
