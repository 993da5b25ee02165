package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/ctoolsd/internal/ctool"
	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
)

// registerTools registers the toolchain tools. Argument maps pass through
// to the service untouched; the service owns defaulting and validation, and
// the wire schema below mirrors its contract for host discovery.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "compile",
		Description: "Compile C source code with the configured compiler. Accepts source text or the path of a source file and returns the compiler outcome together with the object file path.",
		InputSchema: compileInputSchema(),
	}, s.handleCompile)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "disassemble",
		Description: "Disassemble C source or a compiled object file into an assembly listing. Source input is compiled to a temporary object file first.",
		InputSchema: disassembleInputSchema(),
	}, s.handleDisassemble)
}

func compileInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"code": map[string]any{
				"type":        "string",
				"description": "C source code, or the path of a C source file",
			},
			"output_file": map[string]any{
				"type":        "string",
				"description": "Output object file path",
				"default":     ctool.DefaultOutputFile,
			},
			"options": map[string]any{
				"type":        "string",
				"description": "Whitespace-separated compiler flags",
				"default":     ctool.DefaultCompileOptions,
			},
			"verbose": map[string]any{
				"type":        "boolean",
				"description": "Report the full compiler command line as it runs",
				"default":     false,
			},
		},
		"required": []any{"code"},
	}
}

func disassembleInputSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{
				"type":        "string",
				"description": "C source code, a source file path, or an object file path",
			},
			"is_source_code": map[string]any{
				"type":        "boolean",
				"description": "Whether input is C source rather than an object file",
				"default":     true,
			},
			"options": map[string]any{
				"type":        "string",
				"description": "Whitespace-separated disassembler flags",
				"default":     ctool.DefaultDisassembleOptions,
			},
		},
		"required": []any{"input"},
	}
}

func (s *Server) handleCompile(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, ctool.CompileResult, error) {
	ctx = logging.WithInvocationID(ctx, newInvocationID())
	start := time.Now()
	s.metrics.IncrementActive(ctx, "compile")
	var reason string
	defer func() {
		s.metrics.DecrementActive(ctx, "compile")
		s.metrics.RecordInvocation(ctx, "compile", time.Since(start), reason)
	}()

	res := s.ctoolSvc.Compile(ctx, args, newSessionObserver(req, s.logger))
	if !res.Success {
		reason = compileFailureReason(res)
	}
	return nil, *res, nil
}

func (s *Server) handleDisassemble(ctx context.Context, req *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, ctool.DisassembleResult, error) {
	ctx = logging.WithInvocationID(ctx, newInvocationID())
	start := time.Now()
	s.metrics.IncrementActive(ctx, "disassemble")
	var reason string
	defer func() {
		s.metrics.DecrementActive(ctx, "disassemble")
		s.metrics.RecordInvocation(ctx, "disassemble", time.Since(start), reason)
	}()

	res := s.ctoolSvc.Disassemble(ctx, args, newSessionObserver(req, s.logger))
	if !res.Success {
		reason = disassembleFailureReason(res)
	}
	return nil, *res, nil
}

func newInvocationID() string {
	return "inv_" + uuid.NewString()
}
