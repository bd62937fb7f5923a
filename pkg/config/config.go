package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backends de catálogo/stock soportados.
const (
	CatalogBackendPostgres = "postgres"
	CatalogBackendLegacy   = "legacy"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env
// y opcionalmente archivo .env).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	DB      DBConfig
	Catalog CatalogConfig
	Stock   StockConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
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

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string de PostgreSQL con URL encoding para
// caracteres especiales en la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// CatalogConfig selecciona el backend de catálogo/consulta de stock.
// "postgres" usa la base propia; "legacy" consume la API REST heredada
// (normalizando sus variantes de nombres de campo en la frontera).
type CatalogConfig struct {
	Backend       string
	LegacyBaseURL string
}

// StockConfig parámetros de la consulta de existencias.
type StockConfig struct {
	LookupTimeout time.Duration // espera acotada por consulta; al vencer la cifra queda como desconocida
}

// Load lee la configuración desde variables de entorno (y opcionalmente .env).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT,
// DB_HOST, CATALOG_BACKEND, STOCK_LOOKUP_TIMEOUT_MS, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración .env
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "movimientos-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "movimientos"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Catalog: CatalogConfig{
			Backend:       getString(v, "CATALOG_BACKEND", CatalogBackendPostgres),
			LegacyBaseURL: getString(v, "CATALOG_LEGACY_BASE_URL", ""),
		},
		Stock: StockConfig{
			LookupTimeout: time.Duration(getInt(v, "STOCK_LOOKUP_TIMEOUT_MS", 5000)) * time.Millisecond,
		},
	}

	if cfg.Catalog.Backend != CatalogBackendPostgres && cfg.Catalog.Backend != CatalogBackendLegacy {
		return nil, fmt.Errorf("CATALOG_BACKEND desconocido: %q", cfg.Catalog.Backend)
	}
	if cfg.Catalog.Backend == CatalogBackendLegacy && cfg.Catalog.LegacyBaseURL == "" {
		return nil, fmt.Errorf("CATALOG_LEGACY_BASE_URL es obligatorio con backend legacy")
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
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
