package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	AI        AIConfig
	Realtime  RealtimeConfig
	Inventory InventoryConfig
	Metrics   MetricsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env         string // development, staging, production
	Name        string
	LogLevel    string
	SwaggerFile string
	Timezone    string // zona del día calendario de reportes y series (IANA)
}

// Location carga Timezone; si no es válida devuelve UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		return time.UTC
	}
	return loc
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL    string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsAuto bool // aplica las migraciones embebidas al arrancar
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
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

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// AIConfig proveedor de generación de texto.
type AIConfig struct {
	Provider        string // gemini | anthropic
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	TimeoutSeconds  int
}

// Timeout devuelve el timeout por llamada al LLM.
func (c AIConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RealtimeConfig change feed (LISTEN/NOTIFY) y streams SSE. El canal lo fija la migración, no es configurable.
type RealtimeConfig struct {
	ReconnectSeconds int
	KeepAliveSeconds int // intervalo de comentarios ": ping" en los streams SSE
	ResyncSeconds    int // refetch completo del dashboard en vivo; cubre eventos perdidos durante una reconexión
}

// KeepAlive devuelve el intervalo de ping SSE (por defecto 25s).
func (c RealtimeConfig) KeepAlive() time.Duration {
	if c.KeepAliveSeconds <= 0 {
		return 25 * time.Second
	}
	return time.Duration(c.KeepAliveSeconds) * time.Second
}

// Resync devuelve el intervalo de refetch del dashboard en vivo. 0 o negativo lo desactiva.
func (c RealtimeConfig) Resync() time.Duration {
	if c.ResyncSeconds <= 0 {
		return 0
	}
	return time.Duration(c.ResyncSeconds) * time.Second
}

// InventoryConfig umbral de stock bajo y cron del resumen diario.
type InventoryConfig struct {
	LowStockThreshold   int
	LowStockCron        string
	LowStockSyncEnabled bool
}

// MetricsConfig prefijo de las métricas Prometheus.
type MetricsConfig struct {
	Prefix string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:         getString(v, "APP_ENV", "development"),
			Name:        getString(v, "APP_NAME", "umkm-api"),
			LogLevel:    getString(v, "LOG_LEVEL", "info"),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
			Timezone:    getString(v, "APP_TIMEZONE", "Asia/Jakarta"),
		},
		DB: DBConfig{
			DatabaseURL:    getString(v, "DATABASE_URL", ""),
			Host:           getString(v, "DB_HOST", "localhost"),
			Port:           getInt(v, "DB_PORT", 5432),
			User:           getString(v, "DB_USER", "postgres"),
			Password:       getString(v, "DB_PASSWORD", ""),
			DBName:         getString(v, "DB_NAME", "umkm"),
			SSLMode:        getString(v, "DB_SSLMODE", "disable"),
			MigrationsAuto: getBool(v, "MIGRATIONS_AUTO", true),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60*24),
			Issuer:     getString(v, "JWT_ISSUER", "umkm-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		AI: AIConfig{
			Provider:        strings.ToLower(getString(v, "AI_PROVIDER", "gemini")),
			GeminiAPIKey:    getString(v, "GEMINI_API_KEY", ""),
			GeminiModel:     getString(v, "GEMINI_MODEL", "gemini-1.5-flash"),
			AnthropicAPIKey: getString(v, "ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getString(v, "ANTHROPIC_MODEL", "claude-3-5-haiku-20241022"),
			TimeoutSeconds:  getInt(v, "AI_TIMEOUT_SECONDS", 15),
		},
		Realtime: RealtimeConfig{
			ReconnectSeconds: getInt(v, "REALTIME_RECONNECT_SECONDS", 5),
			KeepAliveSeconds: getInt(v, "REALTIME_KEEPALIVE_SECONDS", 25),
			ResyncSeconds:    getInt(v, "REALTIME_RESYNC_SECONDS", 300),
		},
		Inventory: InventoryConfig{
			LowStockThreshold:   getInt(v, "LOW_STOCK_THRESHOLD", 5),
			LowStockCron:        getString(v, "LOW_STOCK_CRON", "0 7 * * *"),
			LowStockSyncEnabled: getBool(v, "LOW_STOCK_SYNC_ENABLED", true),
		},
		Metrics: MetricsConfig{
			Prefix: getString(v, "METRICS_PREFIX", "umkm"),
		},
	}

	if cfg.JWT.Secret == "" && cfg.App.Env == "production" {
		return nil, fmt.Errorf("JWT_SECRET es obligatorio en production")
	}
	if cfg.AI.Provider != "gemini" && cfg.AI.Provider != "anthropic" {
		return nil, fmt.Errorf("AI_PROVIDER inválido: %q", cfg.AI.Provider)
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
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if !v.IsSet(key) {
		return def
	}
	switch strings.ToLower(v.GetString(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}
