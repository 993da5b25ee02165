package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fyrsmithlabs/ctoolsd/internal/config"
	"github.com/fyrsmithlabs/ctoolsd/internal/ctool"
	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
	"github.com/fyrsmithlabs/ctoolsd/internal/mcp"
	"github.com/fyrsmithlabs/ctoolsd/internal/samples"
	"github.com/fyrsmithlabs/ctoolsd/internal/server"
	"github.com/fyrsmithlabs/ctoolsd/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stdio MCP server",
	Long: `Start the MCP server on stdio.

The protocol runs on stdin/stdout, so all logging goes to stderr. When
http.enabled is set, a side listener serves /health and /metrics for
supervision.

Examples:
  # Start with defaults
  ctoolsd serve

  # Start with a specific config file
  ctoolsd serve --config ~/.config/ctoolsd/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe wires configuration, telemetry, the toolchain service, and the
// MCP server, then blocks until a signal arrives or a component fails.
func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// stdout carries the MCP protocol; logs must never share it
	if cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}

	tel, err := telemetry.New(ctx, &cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Telemetry.Shutdown.Timeout)
		defer cancel()
		_ = tel.Shutdown(shutdownCtx)
	}()

	logger, err := logging.NewLogger(&cfg.Logging, tel.LoggerProvider())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info(ctx, "starting ctoolsd",
		zap.String("version", version),
		zap.String("compiler", cfg.Toolchain.Compiler),
		zap.String("disassembler", cfg.Toolchain.Disassembler),
		zap.Duration("timeout", cfg.Toolchain.Timeout.Duration()),
		zap.Bool("http_enabled", cfg.HTTP.Enabled))

	ctoolSvc, err := ctool.NewService(&ctool.Config{
		Compiler:     cfg.Toolchain.Compiler,
		Disassembler: cfg.Toolchain.Disassembler,
		Timeout:      cfg.Toolchain.Timeout.Duration(),
		MaxParallel:  cfg.Toolchain.MaxParallel,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create toolchain service: %w", err)
	}

	collection, err := samples.Load(ctx, cfg.Samples.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to load samples: %w", err)
	}

	mcpServer, err := mcp.NewServer(&mcp.Config{
		Name:    cfg.Server.Name,
		Version: version,
		Logger:  logger,
	}, ctoolSvc, collection)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer func() {
		if err := mcpServer.Close(); err != nil {
			logger.Warn(context.Background(), "failed to close MCP server", zap.Error(err))
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.HTTP.Enabled {
		httpSrv, err := server.NewServer(&server.Config{
			Port:            cfg.HTTP.Port,
			ShutdownTimeout: cfg.HTTP.ShutdownTimeout.Duration(),
			ServiceName:     cfg.Server.Name,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create http server: %w", err)
		}

		g.Go(func() error {
			if err := httpSrv.Start(gctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		return mcpServer.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info(context.Background(), "ctoolsd shutdown complete")
	return nil
}
