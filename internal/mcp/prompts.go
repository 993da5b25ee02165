package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fyrsmithlabs/ctoolsd/internal/review"
)

// registerPrompts registers the review_code prompt. Both arguments are
// optional; the prompt degrades to instruction plus primer when neither
// is supplied.
func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "review_code",
		Description: "Review C source code and its disassembly for security vulnerabilities",
		Arguments: []*mcp.PromptArgument{
			{Name: "code", Description: "C source code to review"},
			{Name: "disassembly", Description: "Disassembly listing of the compiled code"},
		},
	}, s.handleReviewCode)
}

func (s *Server) handleReviewCode(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	var code, disassembly string
	if req.Params != nil {
		code = req.Params.Arguments["code"]
		disassembly = req.Params.Arguments["disassembly"]
	}

	built := review.Build(code, disassembly)
	messages := make([]*mcp.PromptMessage, 0, len(built))
	for _, m := range built {
		messages = append(messages, &mcp.PromptMessage{
			Role:    mcp.Role(m.Role),
			Content: &mcp.TextContent{Text: m.Content},
		})
	}

	return &mcp.GetPromptResult{
		Description: "Security review of C code and disassembly",
		Messages:    messages,
	}, nil
}
