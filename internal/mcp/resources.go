package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	samplesURI      = "file:///context_samples/samples.json"
	samplesMIMEType = "application/json"
)

// registerResources registers the disassembly sample corpus. Hosts append
// the samples to model context to prime disassembly-reading tasks.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         samplesURI,
		Name:        "disassembly_samples",
		Description: "Example C functions paired with their Intel-syntax disassembly, as a JSON array of {code, assembly} objects",
		MIMEType:    samplesMIMEType,
	}, s.handleSamplesResource)
}

func (s *Server) handleSamplesResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      samplesURI,
				MIMEType: samplesMIMEType,
				Text:     string(s.samples.JSON()),
			},
		},
	}, nil
}
