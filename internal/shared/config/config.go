package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds every setting the engine reads from the environment.
// Monetary values arrive as strings and are parsed into decimals in Load,
// so a bad value fails at startup instead of inside a transaction.
type Config struct {
	Env  string     `env:"APP_ENV" envDefault:"development"`
	HTTP HTTPServer `envPrefix:"HTTP_"`
	DB   Database   `envPrefix:"DB_"`

	Orders  Orders  `envPrefix:"ORDER_"`
	Workers Workers `envPrefix:"WORKER_"`
}

type HTTPServer struct {
	Addr string `env:"ADDR" envDefault:":9000"`
}

type Database struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// DSN builds the postgres connection URL used by both pgx and the migrator.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

type Orders struct {
	TaxRateRaw         string        `env:"TAX_RATE" envDefault:"0.08"`
	DefaultShippingRaw string        `env:"DEFAULT_SHIPPING_COST" envDefault:"15.00"`
	CancelGraceWindow  time.Duration `env:"CANCEL_GRACE_WINDOW" envDefault:"15m"`

	TaxRate         decimal.Decimal `env:"-"`
	DefaultShipping decimal.Decimal `env:"-"`
}

type Workers struct {
	AuctionCloseInterval time.Duration `env:"AUCTION_CLOSE_INTERVAL" envDefault:"30s"`
	AutoBidInterval      time.Duration `env:"AUTO_BID_INTERVAL" envDefault:"15s"`
}

// Load reads .env if present, parses the environment and validates the
// monetary settings.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	var err error
	cfg.Orders.TaxRate, err = decimal.NewFromString(cfg.Orders.TaxRateRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_TAX_RATE %q: %w", cfg.Orders.TaxRateRaw, err)
	}
	if cfg.Orders.TaxRate.IsNegative() {
		return nil, fmt.Errorf("ORDER_TAX_RATE must not be negative, got %s", cfg.Orders.TaxRate)
	}
	cfg.Orders.DefaultShipping, err = decimal.NewFromString(cfg.Orders.DefaultShippingRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_DEFAULT_SHIPPING_COST %q: %w", cfg.Orders.DefaultShippingRaw, err)
	}
	if cfg.Orders.CancelGraceWindow <= 0 {
		return nil, fmt.Errorf("ORDER_CANCEL_GRACE_WINDOW must be positive, got %s", cfg.Orders.CancelGraceWindow)
	}

	return cfg, nil
}
