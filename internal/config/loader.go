package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
	"github.com/fyrsmithlabs/ctoolsd/internal/telemetry"
)

// maxConfigFileSize caps config files at 1MB.
const maxConfigFileSize = 1 << 20

// LoadWithFile builds the effective configuration. Precedence, highest
// first: environment variables, the YAML file at configPath, built-in
// defaults. An empty configPath means ~/.config/ctoolsd/config.yaml,
// and a missing file is fine; everything then comes from the
// environment and the defaults.
//
// The file is only accepted from ~/.config/ctoolsd/ or /etc/ctoolsd/,
// must not be group- or world-readable, and may not exceed 1MB.
//
// Environment keys map to YAML paths by splitting on the first
// underscore: TOOLCHAIN_COMPILER becomes toolchain.compiler,
// LOGGING_LEVEL becomes logging.level.
func LoadWithFile(configPath string) (*Config, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "ctoolsd", "config.yaml")
	}

	if err := validateConfigPath(configPath); err != nil {
		return nil, fmt.Errorf("config path validation failed: %w", err)
	}

	k := koanf.New(".")
	if err := loadYAMLFile(k, configPath); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("", ".", envKeyToPath), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg, k)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// loadYAMLFile merges the YAML file at path into k. A file that does
// not exist is skipped. All checks run against the open descriptor, so
// the file cannot be swapped between validation and read.
func loadYAMLFile(k *koanf.Koanf, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if err := validateFileInfo(info); err != nil {
		return fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	return nil
}

// envKeyToPath maps an environment key to a dotted config path by
// splitting on the first underscore. The remainder keeps its
// underscores: TOOLCHAIN_MAX_PARALLEL becomes toolchain.max_parallel.
func envKeyToPath(key string) string {
	lower := strings.ToLower(key)
	section, field, found := strings.Cut(lower, "_")
	if !found {
		return lower
	}
	return section + "." + field
}

// EnsureConfigDir creates ~/.config/ctoolsd with owner-only permissions.
func EnsureConfigDir() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	dir := filepath.Join(home, ".config", "ctoolsd")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}
	return nil
}

// validateConfigPath restricts config files to the two allowed
// directories. Symlinks are resolved first so a link cannot smuggle in
// a file from elsewhere; paths that do not exist yet validate as given.
func validateConfigPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, dir := range []string{filepath.Join(home, ".config", "ctoolsd"), "/etc/ctoolsd"} {
		if strings.HasPrefix(abs, dir) {
			return nil
		}
	}
	return fmt.Errorf("config file must be in ~/.config/ctoolsd/ or /etc/ctoolsd/")
}

// validateFileInfo enforces owner-only permissions and the size cap.
func validateFileInfo(info os.FileInfo) error {
	// Windows has no Unix permission bits worth checking.
	if runtime.GOOS != "windows" {
		if perm := info.Mode().Perm(); perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}

// applyDefaults fills in whatever the file and environment left unset.
// Where zero is a meaningful setting (toolchain.timeout, the
// default-true booleans, the telemetry sampling rate) the koanf key set
// distinguishes absent from explicitly zero.
func applyDefaults(cfg *Config, k *koanf.Koanf) {
	if cfg.Server.Name == "" {
		cfg.Server.Name = "c-tools"
	}

	if cfg.Toolchain.Compiler == "" {
		cfg.Toolchain.Compiler = "gcc"
	}
	if cfg.Toolchain.Disassembler == "" {
		cfg.Toolchain.Disassembler = "objdump"
	}
	if cfg.Toolchain.Timeout == 0 && !k.Exists("toolchain.timeout") {
		cfg.Toolchain.Timeout = Duration(30 * time.Second)
	}

	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 9090
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = Duration(10 * time.Second)
	}

	applyLoggingDefaults(&cfg.Logging, k)
	applyTelemetryDefaults(&cfg.Telemetry, k)
}

func applyLoggingDefaults(lc *logging.Config, k *koanf.Koanf) {
	d := logging.NewDefaultConfig()
	if lc.Level == "" {
		lc.Level = d.Level
	}
	if lc.Format == "" {
		lc.Format = d.Format
	}
	if lc.Output == "" {
		lc.Output = d.Output
	}
	if !k.Exists("logging.sampling.enabled") {
		lc.Sampling.Enabled = d.Sampling.Enabled
	}
	if lc.Sampling.Tick == 0 {
		lc.Sampling.Tick = d.Sampling.Tick
	}
	if lc.Sampling.Initial == 0 {
		lc.Sampling.Initial = d.Sampling.Initial
	}
	if lc.Sampling.Thereafter == 0 {
		lc.Sampling.Thereafter = d.Sampling.Thereafter
	}
	if !k.Exists("logging.caller.enabled") {
		lc.Caller.Enabled = d.Caller.Enabled
	}
	if lc.Caller.Skip == 0 {
		lc.Caller.Skip = d.Caller.Skip
	}
	if lc.Stacktrace.Level == "" {
		lc.Stacktrace.Level = d.Stacktrace.Level
	}
	if lc.Fields == nil {
		lc.Fields = d.Fields
	}
}

// applyTelemetryDefaults leaves Enabled alone; export stays opt-in.
func applyTelemetryDefaults(tc *telemetry.Config, k *koanf.Koanf) {
	d := telemetry.NewDefaultConfig()
	if tc.Endpoint == "" {
		tc.Endpoint = d.Endpoint
	}
	if tc.Protocol == "" {
		tc.Protocol = d.Protocol
	}
	if tc.ServiceName == "" {
		tc.ServiceName = d.ServiceName
	}
	if tc.ServiceVersion == "" {
		tc.ServiceVersion = d.ServiceVersion
	}
	if !k.Exists("telemetry.insecure") {
		tc.Insecure = d.Insecure
	}
	if tc.Sampling.Rate == 0 && !k.Exists("telemetry.sampling.rate") {
		tc.Sampling.Rate = d.Sampling.Rate
	}
	if !k.Exists("telemetry.metrics.enabled") {
		tc.Metrics.Enabled = d.Metrics.Enabled
	}
	if tc.Metrics.ExportInterval == 0 {
		tc.Metrics.ExportInterval = d.Metrics.ExportInterval
	}
	if tc.Shutdown.Timeout == 0 {
		tc.Shutdown.Timeout = d.Shutdown.Timeout
	}
}
