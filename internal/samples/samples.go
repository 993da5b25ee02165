// Package samples holds the disassembly example corpus served as an MCP
// resource. A corpus ships embedded in the binary; deployments can replace
// it with an external JSON file via samples.path.
package samples

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
)

//go:embed context_samples/samples.json
var embedded []byte

// Sample pairs C source with its Intel-syntax disassembly listing.
type Sample struct {
	Code     string `json:"code"`
	Assembly string `json:"assembly"`
}

// Collection is an immutable set of samples loaded once at startup.
type Collection struct {
	samples []Sample
	raw     []byte
}

// Load builds the sample collection. An empty path selects the embedded
// corpus. A configured path that does not exist yields an empty collection
// with a warning, so a missing optional file cannot block startup; a path
// that exists but cannot be read or parsed is a startup error.
func Load(ctx context.Context, path string, logger *logging.Logger) (*Collection, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	if path == "" {
		c, err := parse(embedded)
		if err != nil {
			return nil, fmt.Errorf("parsing embedded samples: %w", err)
		}
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn(ctx, "samples file not found, serving empty collection",
				zap.String("path", path))
			return &Collection{raw: []byte("[]")}, nil
		}
		return nil, fmt.Errorf("reading samples file %s: %w", path, err)
	}

	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing samples file %s: %w", path, err)
	}
	logger.Info(ctx, "loaded samples file",
		zap.String("path", path),
		zap.Int("samples", c.Len()))
	return c, nil
}

func parse(data []byte) (*Collection, error) {
	var samples []Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, err
	}
	return &Collection{samples: samples, raw: data}, nil
}

// Samples returns a copy of the loaded samples.
func (c *Collection) Samples() []Sample {
	return append([]Sample(nil), c.samples...)
}

// JSON returns the serialized corpus exactly as loaded.
func (c *Collection) JSON() []byte {
	return append([]byte(nil), c.raw...)
}

// Len reports the number of samples.
func (c *Collection) Len() int {
	return len(c.samples)
}
