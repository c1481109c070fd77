package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed(t *testing.T) {
	testCases := map[string]struct {
		env      map[string]string
		expected SeedConfig
		wantErr  bool
	}{
		"defaults": {
			env: map[string]string{},
			expected: SeedConfig{
				DatabaseURL: DefaultDatabaseURL, Products: 20000, Orders: 2000,
				ItemsMin: 1, ItemsMax: 4, QtyMin: 1, QtyMax: 5,
				ProductBatch: 1000, OrderBatch: 200,
			},
		},
		"overrides and floors at one": {
			env: map[string]string{
				"SEED_ROWS": "10", "SEED_ORDERS": "0",
				"ORDER_ITEMS_MIN": "0", "ORDER_ITEMS_MAX": "2",
				"ORDER_QTY_MIN": "-4", "ORDER_QTY_MAX": "0",
			},
			expected: SeedConfig{
				DatabaseURL: DefaultDatabaseURL, Products: 10, Orders: 0,
				ItemsMin: 1, ItemsMax: 2, QtyMin: 1, QtyMax: 1,
				ProductBatch: 1000, OrderBatch: 200,
			},
		},
		"inverted item range": {
			env:     map[string]string{"ORDER_ITEMS_MIN": "5", "ORDER_ITEMS_MAX": "2"},
			wantErr: true,
		},
		"negative rows": {
			env:     map[string]string{"SEED_ROWS": "-1"},
			wantErr: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			for _, key := range []string{
				"DATABASE_URL", "SEED_ROWS", "SEED_ORDERS", "ORDER_ITEMS_MIN",
				"ORDER_ITEMS_MAX", "ORDER_QTY_MIN", "ORDER_QTY_MAX",
			} {
				t.Setenv(key, tc.env[key])
			}

			cfg, err := LoadSeed()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, *cfg)
		})
	}
}
