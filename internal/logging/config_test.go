package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.OTEL)
	assert.True(t, cfg.Sampling.Enabled)
	assert.Equal(t, time.Second, cfg.Sampling.Tick)
	assert.Equal(t, 100, cfg.Sampling.Initial)
	assert.Equal(t, 10, cfg.Sampling.Thereafter)
	assert.True(t, cfg.Caller.Enabled)
	assert.Equal(t, "error", cfg.Stacktrace.Level)
	assert.Equal(t, "ctoolsd", cfg.Fields["service"])

	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "default valid",
			mutate: func(c *Config) {},
		},
		{
			name:   "trace level valid",
			mutate: func(c *Config) { c.Level = "trace" },
		},
		{
			name:   "console format valid",
			mutate: func(c *Config) { c.Format = "console" },
		},
		{
			name:   "stdout output valid",
			mutate: func(c *Config) { c.Output = "stdout" },
		},
		{
			name:    "bad level",
			mutate:  func(c *Config) { c.Level = "verbose" },
			wantErr: "invalid level",
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Format = "xml" },
			wantErr: "format must be",
		},
		{
			name:    "bad output",
			mutate:  func(c *Config) { c.Output = "syslog" },
			wantErr: "output must be",
		},
		{
			name: "zero sampling tick",
			mutate: func(c *Config) {
				c.Sampling.Enabled = true
				c.Sampling.Tick = 0
			},
			wantErr: "sampling tick",
		},
		{
			name: "negative sampling count",
			mutate: func(c *Config) {
				c.Sampling.Enabled = true
				c.Sampling.Initial = -1
			},
			wantErr: "sampling counts",
		},
		{
			name: "sampling disabled skips checks",
			mutate: func(c *Config) {
				c.Sampling.Enabled = false
				c.Sampling.Tick = 0
			},
		},
		{
			name:    "bad stacktrace level",
			mutate:  func(c *Config) { c.Stacktrace.Level = "loud" },
			wantErr: "invalid stacktrace level",
		},
		{
			name:   "empty stacktrace level valid",
			mutate: func(c *Config) { c.Stacktrace.Level = "" },
		},
		{
			name:    "negative caller skip",
			mutate:  func(c *Config) { c.Caller.Skip = -1 },
			wantErr: "caller skip",
		},
		{
			name:    "empty field key",
			mutate:  func(c *Config) { c.Fields = map[string]string{"": "x"} },
			wantErr: "field key",
		},
		{
			name:    "empty field value",
			mutate:  func(c *Config) { c.Fields = map[string]string{"env": ""} },
			wantErr: "empty value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
