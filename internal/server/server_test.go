package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
)

func testConfig(port int) *Config {
	return &Config{
		Port:            port,
		ShutdownTimeout: 5 * time.Second,
		ServiceName:     "c-tools",
	}
}

func TestNewServer(t *testing.T) {
	srv, err := NewServer(testConfig(9091), logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if srv == nil {
		t.Fatal("NewServer() returned nil")
	}
	if srv.config.Port != 9091 {
		t.Errorf("server port = %d, want 9091", srv.config.Port)
	}
}

func TestNewServer_NilLogger(t *testing.T) {
	if _, err := NewServer(testConfig(9091), nil); err == nil {
		t.Fatal("NewServer() accepted a nil logger")
	}
}

func TestNewServer_NilConfigDefaults(t *testing.T) {
	srv, err := NewServer(nil, logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	if srv.config.Port != 9090 {
		t.Errorf("default port = %d, want 9090", srv.config.Port)
	}
	if srv.config.ShutdownTimeout != 10*time.Second {
		t.Errorf("default shutdown timeout = %v, want 10s", srv.config.ShutdownTimeout)
	}
}

// startTestServer runs srv in the background until test cleanup and
// blocks until the health endpoint answers.
func startTestServer(t *testing.T, srv *Server) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				t.Errorf("Start() error = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("server did not shut down in time")
		}
	})

	url := fmt.Sprintf("http://localhost:%d/health", srv.config.Port)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("server on port %d did not come up", srv.config.Port)
}

func TestServer_HealthCheck(t *testing.T) {
	srv, err := NewServer(testConfig(9092), logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	startTestServer(t, srv)

	resp, err := http.Get("http://localhost:9092/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if health.Status != "ok" {
		t.Errorf("health status = %q, want %q", health.Status, "ok")
	}
	if health.Service != "c-tools" {
		t.Errorf("health service = %q, want %q", health.Service, "c-tools")
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	srv, err := NewServer(testConfig(9093), logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	startTestServer(t, srv)

	resp, err := http.Get("http://localhost:9093/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /metrics status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading metrics body: %v", err)
	}

	// The default registry always carries the Go runtime collectors
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("metrics output missing go runtime collectors")
	}
}

func TestServer_GracefulShutdown(t *testing.T) {
	srv, err := NewServer(testConfig(9094), logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	// Confirm it is serving before asking it to stop
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://localhost:9094/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	began := time.Now()
	cancel()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("Start() error = %v", err)
		}
		if took := time.Since(began); took > 3*time.Second {
			t.Errorf("shutdown took %v, want under 3s", took)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down within timeout")
	}

	if resp, err := http.Get("http://localhost:9094/health"); err == nil {
		resp.Body.Close()
		t.Error("server still responding after shutdown")
	}
}

func TestServer_PortAlreadyInUse(t *testing.T) {
	first, err := NewServer(testConfig(9095), logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	startTestServer(t, first)

	second, err := NewServer(testConfig(9095), logging.NewNop())
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := second.Start(ctx); err == nil {
		t.Error("second Start() on the same port = nil error")
	}
}
