package telemetry

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// Config holds the OTLP export settings.
type Config struct {
	Enabled        bool           `koanf:"enabled"`
	Endpoint       string         `koanf:"endpoint"`
	Protocol       string         `koanf:"protocol"` // "grpc" (default) or "http/protobuf"
	ServiceName    string         `koanf:"service_name"`
	ServiceVersion string         `koanf:"service_version"`
	Insecure       bool           `koanf:"insecure"`        // plaintext, loopback collectors only
	TLSSkipVerify  bool           `koanf:"tls_skip_verify"` // accept internal CA certificates
	Sampling       SamplingConfig `koanf:"sampling"`
	Metrics        MetricsConfig  `koanf:"metrics"`
	Shutdown       ShutdownConfig `koanf:"shutdown"`
}

// SamplingConfig controls what fraction of traces is recorded.
type SamplingConfig struct {
	Rate float64 `koanf:"rate"` // 0 drops everything, 1 keeps everything
}

// MetricsConfig controls the metric export pipeline.
type MetricsConfig struct {
	Enabled        bool          `koanf:"enabled"`
	ExportInterval time.Duration `koanf:"export_interval"`
}

// ShutdownConfig bounds how long Shutdown waits for the final flush.
type ShutdownConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

// NewDefaultConfig returns defaults aimed at a local collector. Export
// stays off until an operator turns it on; most installs have nothing
// listening on the OTLP port.
func NewDefaultConfig() *Config {
	return &Config{
		Endpoint:       "localhost:4317",
		Protocol:       "grpc",
		ServiceName:    "ctoolsd",
		ServiceVersion: "0.1.0",
		Insecure:       true,
		Sampling:       SamplingConfig{Rate: 1.0},
		Metrics: MetricsConfig{
			Enabled:        true,
			ExportInterval: 15 * time.Second,
		},
		Shutdown: ShutdownConfig{Timeout: 5 * time.Second},
	}
}

// Validate checks the export settings. A disabled config is always valid.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when telemetry is enabled")
	}
	switch c.Protocol {
	case "", "grpc", "http/protobuf":
	default:
		return fmt.Errorf("protocol must be %q or %q, got %q", "grpc", "http/protobuf", c.Protocol)
	}
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required for exported telemetry")
	}
	if c.ServiceVersion == "" {
		return fmt.Errorf("service_version is required for exported telemetry")
	}
	if c.Insecure && !c.loopbackEndpoint() {
		return fmt.Errorf("insecure connections to remote endpoints are refused; enable TLS or point at localhost")
	}
	if c.Sampling.Rate < 0 || c.Sampling.Rate > 1 {
		return fmt.Errorf("sampling.rate %v is outside [0, 1]", c.Sampling.Rate)
	}
	if c.Metrics.Enabled && c.Metrics.ExportInterval <= 0 {
		return fmt.Errorf("metrics.export_interval must be positive")
	}
	if c.Shutdown.Timeout <= 0 {
		return fmt.Errorf("shutdown.timeout must be greater than zero")
	}
	return nil
}

// loopbackEndpoint reports whether the endpoint targets this machine.
// Plaintext export is only permitted on loopback.
func (c *Config) loopbackEndpoint() bool {
	host, _, err := net.SplitHostPort(c.Endpoint)
	if err != nil {
		// No port, or an unbracketed IPv6 literal.
		host = c.Endpoint
	}
	return host == "localhost" ||
		strings.HasPrefix(host, "127.") ||
		strings.HasPrefix(host, "::1")
}
