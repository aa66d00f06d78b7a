package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Catalog CatalogConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CatalogConfig configuración del catálogo externo (simple.ripley.cl) y de la
// regla de catalogación.
type CatalogConfig struct {
	BaseURL        string // dominio del sitio, sin slash final
	SearchPath     string // path de búsqueda con placeholder {q}
	TimeoutSeconds int    // timeout de red por petición
	DelayMS        int    // retardo entre SKUs para no gatillar bloqueos
	UserAgent      string
	MinLevels      int      // niveles útiles mínimos del breadcrumb
	MiscMarkers    []string // marcadores de categoría miscelánea (hoja)
	CookieHeader   string   // COOKIE_HEADER: "k1=v1; k2=v2"
	CookiesJSON    string   // COOKIES_JSON: {"k1":"v1"}
}

// Timeout devuelve el timeout de red como time.Duration.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Delay devuelve el retardo entre SKUs como time.Duration.
func (c CatalogConfig) Delay() time.Duration {
	return time.Duration(c.DelayMS) * time.Millisecond
}

// SearchURL arma la URL de búsqueda para un SKU.
func (c CatalogConfig) SearchURL(sku string) string {
	return strings.TrimRight(c.BaseURL, "/") + strings.ReplaceAll(c.SearchPath, "{q}", sku)
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, CATALOG_BASE_URL, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	// También intenta config.env
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "catalogacion-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Catalog: CatalogConfig{
			BaseURL:        getString(v, "CATALOG_BASE_URL", "https://simple.ripley.cl"),
			SearchPath:     getString(v, "CATALOG_SEARCH_PATH", "/busca?Ntt={q}"),
			TimeoutSeconds: getInt(v, "CATALOG_TIMEOUT_SECONDS", 25),
			DelayMS:        getInt(v, "CATALOG_DELAY_MS", 500),
			UserAgent:      getString(v, "CATALOG_USER_AGENT", defaultUserAgent),
			MinLevels:      getInt(v, "CATALOG_MIN_LEVELS", 2),
			MiscMarkers:    getStringSlice(v, "CATALOG_MISC_MARKERS", []string{"otros", "miscel", "varios", "variedad"}),
			CookieHeader:   getString(v, "COOKIE_HEADER", ""),
			CookiesJSON:    getString(v, "COOKIES_JSON", ""),
		},
	}

	if cfg.Catalog.MinLevels < 1 {
		return nil, fmt.Errorf("config: CATALOG_MIN_LEVELS debe ser >= 1 (valor: %d)", cfg.Catalog.MinLevels)
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

// getStringSlice lee una lista separada por comas ("otros,miscel,varios").
func getStringSlice(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	raw := v.GetString(key)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
