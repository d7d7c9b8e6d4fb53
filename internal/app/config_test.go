package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		edit        func(*Config)
		wantErrText string
	}{
		{
			name: "defaults are valid",
		},
		{
			name:        "unknown store",
			edit:        func(c *Config) { c.Store.Kind = "redis" },
			wantErrText: "unsupported store kind",
		},
		{
			name:        "postgres without url",
			edit:        func(c *Config) { c.Store.Kind = StorePostgres },
			wantErrText: "database URL is required",
		},
		{
			name: "postgres with url",
			edit: func(c *Config) {
				c.Store.Kind = StorePostgres
				c.Store.DatabaseURL = "postgres://localhost/order"
			},
		},
		{
			name:        "negative fixed amount",
			edit:        func(c *Config) { c.Discount.FixedAmount = -1 },
			wantErrText: "must not be negative",
		},
		{
			name: "malformed rate",
			edit: func(c *Config) {
				c.Discount.Kind = "rate"
				c.Discount.Rate = "ten"
			},
			wantErrText: "parse discount rate",
		},
		{
			name:        "unknown grade",
			edit:        func(c *Config) { c.Demo.Grade = "GOLD" },
			wantErrText: "demo grade",
		},
		{
			name:        "unknown output",
			edit:        func(c *Config) { c.Demo.Output = "xml" },
			wantErrText: "unsupported output format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			if tt.edit != nil {
				tt.edit(cfg)
			}

			err := cfg.Validate()
			if tt.wantErrText != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrText)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStoreConfig_ApplyPlatformDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://platform/order")

	cfg := StoreConfig{Kind: StorePostgres}
	cfg.ApplyPlatformDefaults()
	assert.Equal(t, "postgres://platform/order", cfg.DatabaseURL)

	cfg = StoreConfig{Kind: StorePostgres, DatabaseURL: "postgres://explicit/order"}
	cfg.ApplyPlatformDefaults()
	assert.Equal(t, "postgres://explicit/order", cfg.DatabaseURL)
}
