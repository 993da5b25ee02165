package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplesResource(t *testing.T) {
	collection := testCollection(t)
	server, err := NewServer(nil, &mockCtoolService{}, collection)
	require.NoError(t, err)

	res, err := server.handleSamplesResource(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	content := res.Contents[0]
	assert.Equal(t, samplesURI, content.URI)
	assert.Equal(t, samplesMIMEType, content.MIMEType)
	assert.Equal(t, string(collection.JSON()), content.Text)
	assert.True(t, json.Valid([]byte(content.Text)))
}
