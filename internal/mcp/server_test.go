package mcp

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/ctoolsd/internal/ctool"
	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
	"github.com/fyrsmithlabs/ctoolsd/internal/samples"
)

// mockCtoolService is a mock implementation for ctool.Service. Handlers pass
// argument maps through untouched, so the mock records what it received.
type mockCtoolService struct {
	mu sync.Mutex

	compileResult     *ctool.CompileResult
	disassembleResult *ctool.DisassembleResult
	closeErr          error

	compileCtx      context.Context
	compileArgs     map[string]any
	disassembleCtx  context.Context
	disassembleArgs map[string]any
	closeCalls      int
}

func (m *mockCtoolService) Compile(ctx context.Context, args map[string]any, obs ctool.Observer) *ctool.CompileResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.compileCtx = ctx
	m.compileArgs = args
	if m.compileResult != nil {
		return m.compileResult
	}
	return &ctool.CompileResult{Success: true, Message: "Successfully compiled to output.o", OutputFile: "output.o"}
}

func (m *mockCtoolService) Disassemble(ctx context.Context, args map[string]any, obs ctool.Observer) *ctool.DisassembleResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disassembleCtx = ctx
	m.disassembleArgs = args
	if m.disassembleResult != nil {
		return m.disassembleResult
	}
	return &ctool.DisassembleResult{Success: true, Assembly: "0000000000001129 <main>:\n"}
}

func (m *mockCtoolService) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	return m.closeErr
}

func testCollection(t *testing.T) *samples.Collection {
	t.Helper()
	collection, err := samples.Load(context.Background(), "", logging.NewNop())
	require.NoError(t, err)
	return collection
}

func TestNewServer(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		cfg := &Config{
			Name:    "test-server",
			Version: "1.0.0",
			Logger:  logging.NewNop(),
		}

		server, err := NewServer(cfg, &mockCtoolService{}, testCollection(t))
		require.NoError(t, err)
		require.NotNil(t, server)
		require.NotNil(t, server.mcp)
		require.NotNil(t, server.metrics)

		require.NoError(t, server.Close())
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		server, err := NewServer(nil, &mockCtoolService{}, testCollection(t))
		require.NoError(t, err)
		require.NotNil(t, server)

		require.NoError(t, server.Close())
	})

	t.Run("nil logger uses nop", func(t *testing.T) {
		cfg := &Config{Name: "test-server", Version: "1.0.0"}

		server, err := NewServer(cfg, &mockCtoolService{}, testCollection(t))
		require.NoError(t, err)
		require.NotNil(t, server.logger)

		require.NoError(t, server.Close())
	})

	t.Run("missing ctool service", func(t *testing.T) {
		_, err := NewServer(DefaultConfig(), nil, testCollection(t))
		require.Error(t, err)
		require.Contains(t, err.Error(), "ctool service is required")
	})

	t.Run("missing sample collection", func(t *testing.T) {
		_, err := NewServer(DefaultConfig(), &mockCtoolService{}, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "sample collection is required")
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)
	require.Equal(t, "c-tools", cfg.Name)
	require.Equal(t, "0.1.0", cfg.Version)
	require.NotNil(t, cfg.Logger)
}

func TestServerClose(t *testing.T) {
	svc := &mockCtoolService{}
	server, err := NewServer(nil, svc, testCollection(t))
	require.NoError(t, err)

	// Close should succeed
	err = server.Close()
	require.NoError(t, err)

	// Second close should also succeed (idempotent)
	err = server.Close()
	require.NoError(t, err)
	require.Equal(t, 2, svc.closeCalls)
}

func TestServerClose_PropagatesServiceError(t *testing.T) {
	svc := &mockCtoolService{closeErr: errors.New("boom")}
	server, err := NewServer(nil, svc, testCollection(t))
	require.NoError(t, err)

	err = server.Close()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ctool service close")
}
