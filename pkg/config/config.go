package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	Backend  BackendConfig
	Slots    SlotsConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	Session  SessionConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Slots.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" required:"true"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`

	CORSOrigins []string `envconfig:"STOREFRONT_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points at the commerce backend every remote call goes to.
type BackendConfig struct {
	BaseURL string        `envconfig:"STOREFRONT_BACKEND_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"STOREFRONT_BACKEND_TIMEOUT" default:"15s"`
}

// SlotsConfig selects the durable store behind the guest slots.
type SlotsConfig struct {
	Driver      string `envconfig:"STOREFRONT_SLOTS_DRIVER" default:"sqlite"`
	DSN         string `envconfig:"STOREFRONT_SLOTS_DSN" default:"file:storefront.db?cache=shared"`
	AutoMigrate bool   `envconfig:"STOREFRONT_SLOTS_AUTO_MIGRATE" default:"true"`

	MaxOpenConns    int           `envconfig:"STOREFRONT_SLOTS_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"STOREFRONT_SLOTS_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"STOREFRONT_SLOTS_CONN_MAX_LIFETIME" default:"1h"`
	SlowQuery       time.Duration `envconfig:"STOREFRONT_SLOTS_SLOW_QUERY" default:"200ms"`
}

func (s SlotsConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(s.Driver), "sqlite")
}

func (s *SlotsConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%s must be sqlite or postgres, got %q", EnvSlotsDriver, s.Driver)
	}
	if strings.TrimSpace(s.DSN) == "" {
		return fmt.Errorf("%s is required", EnvSlotsDSN)
	}
	return nil
}

// RedisConfig backs the short-lived session slots. Leaving both URL and
// Address empty keeps those slots in process memory.
type RedisConfig struct {
	URL            string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address        string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password       string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB             int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"STOREFRONT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"5s"`
	SessionSlotTTL time.Duration `envconfig:"STOREFRONT_REDIS_SESSION_SLOT_TTL" default:"24h"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CheckoutConfig struct {
	FlightTimeout  time.Duration `envconfig:"STOREFRONT_CHECKOUT_FLIGHT_TIMEOUT" default:"15m"`
	ReportTimeout  time.Duration `envconfig:"STOREFRONT_CHECKOUT_REPORT_TIMEOUT" default:"10s"`
	PaymentTimeout time.Duration `envconfig:"STOREFRONT_CHECKOUT_PAYMENT_TIMEOUT" default:"30s"`
	MerchantName   string        `envconfig:"STOREFRONT_CHECKOUT_MERCHANT_NAME" default:"Innovative Hub"`
	Description    string        `envconfig:"STOREFRONT_CHECKOUT_DESCRIPTION" default:"Order Payment"`
	Currency       string        `envconfig:"STOREFRONT_CHECKOUT_CURRENCY" default:"INR"`
}

// SessionConfig controls how the gateway identifies and holds browsing
// sessions.
type SessionConfig struct {
	Header        string        `envconfig:"STOREFRONT_SESSION_HEADER" default:"X-Storefront-Session"`
	CookieName    string        `envconfig:"STOREFRONT_SESSION_COOKIE" default:"sf_session"`
	IdleTTL       time.Duration `envconfig:"STOREFRONT_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval time.Duration `envconfig:"STOREFRONT_SESSION_SWEEP_INTERVAL" default:"5m"`
	SlotRetention time.Duration `envconfig:"STOREFRONT_SESSION_SLOT_RETENTION" default:"720h"`
}
