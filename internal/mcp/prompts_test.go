package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCodePrompt(t *testing.T) {
	server, err := NewServer(nil, &mockCtoolService{}, testCollection(t))
	require.NoError(t, err)

	code := "int main(void) { return 0; }"
	disassembly := "0000000000001129 <main>:"

	req := &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{
			Name: "review_code",
			Arguments: map[string]string{
				"code":        code,
				"disassembly": disassembly,
			},
		},
	}

	res, err := server.handleReviewCode(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Description)
	require.Len(t, res.Messages, 4)

	// Instruction opens, primer closes
	first := res.Messages[0]
	assert.Equal(t, mcp.Role("user"), first.Role)
	firstText, ok := first.Content.(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, firstText.Text, "security expert")

	assert.Equal(t, code, res.Messages[1].Content.(*mcp.TextContent).Text)
	assert.Equal(t, disassembly, res.Messages[2].Content.(*mcp.TextContent).Text)

	last := res.Messages[3]
	assert.Equal(t, mcp.Role("assistant"), last.Role)
	assert.Contains(t, last.Content.(*mcp.TextContent).Text, "found the following vulnerabilities")
}

func TestReviewCodePrompt_NoArguments(t *testing.T) {
	server, err := NewServer(nil, &mockCtoolService{}, testCollection(t))
	require.NoError(t, err)

	// A request with no params still yields the instruction and primer
	res, err := server.handleReviewCode(context.Background(), &mcp.GetPromptRequest{})
	require.NoError(t, err)
	require.Len(t, res.Messages, 2)
	assert.Equal(t, mcp.Role("user"), res.Messages[0].Role)
	assert.Equal(t, mcp.Role("assistant"), res.Messages[1].Role)
}
