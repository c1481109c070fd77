package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DATABASE_URL", "MAX_CONCURRENT_REQUESTS", "STATIC_DIR",
		"BAD_QUERY_MODE", "BAD_LIKE_MIN_COUNT", "BAD_LIKE_PATTERN", "BAD_RANDOM_POOL",
		"BAD_RANDOM_KEY_BYTES", "BAD_JOIN_TOP_CATS", "BAD_JOIN_MAX_PER_CAT", "BAD_JOIN_FANOUT",
		"REDIS_ADDR", "REDIS_PASSWORD", "RUN_HISTORY_SIZE", "AMQP_URL",
		"CONSUL_ADDR", "SERVICE_NAME", "SERVICE_ID",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, 8081, cfg.PortNumber())
	assert.Equal(t, DefaultDatabaseURL, cfg.DatabaseURL)
	assert.Equal(t, 50, cfg.MaxConcurrentRequests)
	assert.Equal(t, 100, cfg.Redis.RunHistorySize)
	assert.Equal(t, "shop", cfg.Consul.ServiceName)
	assert.Equal(t, "shop-1", cfg.Consul.ServiceID)
	assert.Equal(t, BadQueryConfig{
		DefaultMode:    "like",
		LikeMinCount:   1,
		LikePattern:    "%lorem%",
		RandomPool:     500000,
		RandomKeyBytes: 256,
		JoinTopCats:    4,
		JoinMaxPerCat:  12000,
		JoinFanout:     80,
	}, cfg.BadQuery)
	assert.Equal(t, 8, cfg.BadQuery.KeyRepeat())
}

func TestLoadBadQuery(t *testing.T) {
	testCases := map[string]struct {
		env      map[string]string
		expected func(t *testing.T, b BadQueryConfig)
	}{
		"normalizes default mode": {
			env: map[string]string{"BAD_QUERY_MODE": "  Random_Sort "},
			expected: func(t *testing.T, b BadQueryConfig) {
				assert.Equal(t, "random_sort", b.DefaultMode)
			},
		},
		"unknown default mode falls back to like": {
			env: map[string]string{"BAD_QUERY_MODE": "drop_tables"},
			expected: func(t *testing.T, b BadQueryConfig) {
				assert.Equal(t, "like", b.DefaultMode)
			},
		},
		"unparsable numbers use defaults": {
			env: map[string]string{"BAD_JOIN_FANOUT": "lots", "BAD_RANDOM_POOL": "1e6"},
			expected: func(t *testing.T, b BadQueryConfig) {
				assert.Equal(t, 80, b.JoinFanout)
				assert.Equal(t, 500000, b.RandomPool)
			},
		},
		"tunables are read": {
			env: map[string]string{
				"BAD_LIKE_MIN_COUNT":   "5",
				"BAD_LIKE_PATTERN":     "%ipsum%",
				"BAD_RANDOM_KEY_BYTES": "16",
				"BAD_JOIN_TOP_CATS":    "2",
				"BAD_JOIN_MAX_PER_CAT": "100",
			},
			expected: func(t *testing.T, b BadQueryConfig) {
				assert.Equal(t, 5, b.LikeMinCount)
				assert.Equal(t, "%ipsum%", b.LikePattern)
				assert.Equal(t, 1, b.KeyRepeat())
				assert.Equal(t, 2, b.JoinTopCats)
				assert.Equal(t, 100, b.JoinMaxPerCat)
			},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			tc.expected(t, LoadBadQuery())
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:                  "8081",
			DatabaseURL:           DefaultDatabaseURL,
			MaxConcurrentRequests: 50,
			Redis:                 RedisConfig{RunHistorySize: 100},
		}
	}

	require.NoError(t, valid().Validate())

	testCases := map[string]struct {
		mutate   func(c *Config)
		contains string
	}{
		"non numeric port":   {mutate: func(c *Config) { c.Port = "http" }, contains: "PORT"},
		"port out of range":  {mutate: func(c *Config) { c.Port = "70000" }, contains: "PORT"},
		"empty database url": {mutate: func(c *Config) { c.DatabaseURL = " " }, contains: "DATABASE_URL"},
		"zero concurrency":   {mutate: func(c *Config) { c.MaxConcurrentRequests = 0 }, contains: "MAX_CONCURRENT_REQUESTS"},
		"zero history":       {mutate: func(c *Config) { c.Redis.RunHistorySize = 0 }, contains: "RUN_HISTORY_SIZE"},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			tc.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}
