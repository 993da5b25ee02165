package ctool

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
)

// tempArtifact is a uniquely named intermediate object file. Each
// disassemble-from-source call owns exactly one; distinct calls never share
// a path, so concurrent pipelines cannot collide.
type tempArtifact struct {
	path     string
	released bool
}

func newTempArtifact() (*tempArtifact, error) {
	f, err := os.CreateTemp("", "ctools-*.o")
	if err != nil {
		return nil, fmt.Errorf("creating temp artifact: %w", err)
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("closing temp artifact: %w", err)
	}
	return &tempArtifact{path: path}, nil
}

// release removes the artifact. It is idempotent, and a failed removal is
// logged at debug without affecting the pipeline result.
func (a *tempArtifact) release(ctx context.Context, logger *logging.Logger) {
	if a == nil || a.released {
		return
	}
	a.released = true
	if err := os.Remove(a.path); err != nil && !os.IsNotExist(err) {
		logger.Debug(ctx, "failed to remove temp artifact",
			zap.String("path", a.path),
			zap.Error(err))
	}
}
