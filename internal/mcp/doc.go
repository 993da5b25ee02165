// Package mcp exposes the C toolchain over the Model Context Protocol.
//
// The implementation uses the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp)
// and registers the compile and disassemble tools, the disassembly sample
// resource, and the review_code prompt. Pipeline progress is forwarded to
// the host as session log notifications. Tool failures travel inside the
// structured result record, never as protocol errors, so hosts always see a
// well-formed outcome.
package mcp
