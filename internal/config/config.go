// Package config provides configuration loading for ctoolsd.
//
// Configuration is loaded from a YAML file and overridden by environment
// variables, with hardcoded defaults for anything left unset.
package config

import (
	"errors"
	"fmt"

	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
	"github.com/fyrsmithlabs/ctoolsd/internal/telemetry"
)

// Config holds the complete ctoolsd configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Toolchain ToolchainConfig  `koanf:"toolchain"`
	Samples   SamplesConfig    `koanf:"samples"`
	HTTP      HTTPConfig       `koanf:"http"`
	Logging   logging.Config   `koanf:"logging"`
	Telemetry telemetry.Config `koanf:"telemetry"`
}

// ServerConfig holds MCP server identity settings.
type ServerConfig struct {
	Name string `koanf:"name"` // Implementation name advertised to MCP hosts
}

// ToolchainConfig holds compiler and disassembler settings.
//
// Binary names are fixed for the lifetime of the process; requests can
// never select a different toolchain.
type ToolchainConfig struct {
	Compiler     string   `koanf:"compiler"`
	Disassembler string   `koanf:"disassembler"`
	Timeout      Duration `koanf:"timeout"`      // Per-invocation limit; 0 disables
	MaxParallel  int      `koanf:"max_parallel"` // Concurrent toolchain processes; 0 = unlimited
}

// SamplesConfig holds the disassembly sample corpus settings.
type SamplesConfig struct {
	Path string `koanf:"path"` // External JSON file; empty uses the embedded corpus
}

// HTTPConfig holds the operational HTTP listener settings.
type HTTPConfig struct {
	Enabled         bool     `koanf:"enabled"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return errors.New("server.name is required")
	}

	if c.Toolchain.Compiler == "" {
		return errors.New("toolchain.compiler is required")
	}
	if c.Toolchain.Disassembler == "" {
		return errors.New("toolchain.disassembler is required")
	}
	if c.Toolchain.Timeout < 0 {
		return fmt.Errorf("toolchain.timeout cannot be negative: %s", c.Toolchain.Timeout.Duration())
	}
	if c.Toolchain.MaxParallel < 0 {
		return fmt.Errorf("toolchain.max_parallel cannot be negative: %d", c.Toolchain.MaxParallel)
	}

	if c.HTTP.Enabled {
		if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
			return fmt.Errorf("invalid http.port: %d (must be 1-65535)", c.HTTP.Port)
		}
		if c.HTTP.ShutdownTimeout <= 0 {
			return errors.New("http.shutdown_timeout must be positive")
		}
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	return nil
}
