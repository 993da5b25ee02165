// Package logging provides structured logging for ctoolsd built on zap.
//
// The package wraps zap with context-aware methods that attach trace and
// request correlation fields automatically, supports a custom trace level
// below debug, and can tee log output to an OpenTelemetry log bridge.
//
// Because the daemon speaks MCP on stdout, logs default to stderr; writing
// logs to stdout would corrupt the protocol stream.
package logging
