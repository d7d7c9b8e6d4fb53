package app

import (
	"os"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-core/internal/domain/discount"
	"github.com/xenking/order-core/internal/domain/member"
)

// Store kinds.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Output formats of the demo run.
const (
	OutputPrice = "price"
	OutputJSON  = "json"
)

// Config holds the complete application configuration, loadable from
// environment variables (ORDER_ prefix), flags, or YAML config files.
type Config struct {
	Store    StoreConfig
	Discount DiscountConfig
	Demo     DemoConfig
}

// StoreConfig selects the member storage backend.
type StoreConfig struct {
	Kind        string `default:"memory" usage:"Member store: memory or postgres"`
	DatabaseURL string `usage:"PostgreSQL connection URL (ORDER_STORE_DATABASE_URL or DATABASE_URL)" flag:"database-url"`
}

// DiscountConfig selects the discount policy applied to orders.
type DiscountConfig struct {
	Kind        string `default:"fixed" usage:"Discount policy: fixed or rate"`
	FixedAmount int64  `default:"1000" usage:"Amount VIP members save with the fixed policy" flag:"fixed-amount"`
	Rate        string `default:"10" usage:"Percent of the price VIP members save with the rate policy"`
}

// DemoConfig describes the member and order of a demo run.
type DemoConfig struct {
	MemberID   int64  `default:"1" usage:"Demo member id" flag:"member-id"`
	MemberName string `default:"memberA" usage:"Demo member name" flag:"member-name"`
	Grade      string `default:"VIP" usage:"Demo member grade: BASIC or VIP"`
	ItemName   string `default:"itemA" usage:"Ordered item name" flag:"item-name"`
	ItemPrice  int64  `default:"10000" usage:"Ordered item price" flag:"item-price"`
	Output     string `default:"price" usage:"Output format: price or json"`
}

// LoadConfig loads configuration from environment variables, flags and YAML
// config files, and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := Load(&cfg); err != nil {
		return nil, err
	}
	cfg.Store.ApplyPlatformDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// Load fills dst from environment variables (ORDER_ prefix), flags and YAML
// config files.
func Load(dst any) error {
	loader := aconfig.LoaderFor(dst, aconfig.Config{
		EnvPrefix: "ORDER",
		Files:     []string{"config.yaml", "/etc/order-core/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return errors.Wrap(err, "load config")
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if _, err := c.Discount.Policy(); err != nil {
		return err
	}
	if _, err := member.ParseGrade(c.Demo.Grade); err != nil {
		return errors.Wrap(err, "demo grade")
	}
	switch c.Demo.Output {
	case OutputPrice, OutputJSON:
	default:
		return errors.Errorf("unsupported output format: %q", c.Demo.Output)
	}
	return nil
}

// Validate reports an unknown store kind or a missing database URL.
func (c *StoreConfig) Validate() error {
	switch c.Kind {
	case StoreMemory:
		return nil
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("database URL is required for the postgres store: set ORDER_STORE_DATABASE_URL or DATABASE_URL")
		}
		return nil
	default:
		return errors.Errorf("unsupported store kind: %q", c.Kind)
	}
}

// Policy builds the configured discount policy.
func (c *DiscountConfig) Policy() (discount.Policy, error) {
	rate := decimal.Zero
	if c.Rate != "" {
		r, err := decimal.NewFromString(c.Rate)
		if err != nil {
			return nil, errors.Wrapf(err, "parse discount rate %q", c.Rate)
		}
		rate = r
	}
	return discount.New(discount.Kind(c.Kind), c.FixedAmount, rate)
}

// ApplyPlatformDefaults maps the platform-provided DATABASE_URL variable to
// the store configuration.
func (c *StoreConfig) ApplyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
}
