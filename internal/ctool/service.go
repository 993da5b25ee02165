package ctool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
)

const instrumentationName = "github.com/fyrsmithlabs/ctoolsd/internal/ctool"

// Service runs C toolchain operations on behalf of MCP tool handlers.
// Methods never return an error; every fault is folded into the result
// record so the host always receives a well-formed outcome.
type Service interface {
	// Compile builds C source into an object file at the requested path.
	Compile(ctx context.Context, args map[string]any, obs Observer) *CompileResult

	// Disassemble produces an assembly listing from C source or an
	// existing object file.
	Disassemble(ctx context.Context, args map[string]any, obs Observer) *DisassembleResult

	// Close marks the service closed. In-flight calls finish; later calls
	// fail fast with a failure record.
	Close() error
}

// Config holds the toolchain settings for a Service. Binary names are fixed
// for the lifetime of the service.
type Config struct {
	// Compiler is the C compiler binary, resolved via PATH.
	Compiler string

	// Disassembler is the disassembler binary, resolved via PATH.
	Disassembler string

	// Timeout bounds each toolchain process. Zero disables the bound.
	Timeout time.Duration

	// MaxParallel caps concurrently running toolchain processes across all
	// calls. Zero means unlimited.
	MaxParallel int
}

// DefaultServiceConfig returns the default toolchain configuration.
func DefaultServiceConfig() *Config {
	return &Config{
		Compiler:     "gcc",
		Disassembler: "objdump",
		Timeout:      30 * time.Second,
	}
}

type service struct {
	config *Config
	logger *logging.Logger

	// sem bounds concurrent toolchain processes; nil means unlimited.
	sem *semaphore.Weighted

	tracer trace.Tracer
	meter  metric.Meter

	invocations metric.Int64Counter
	duration    metric.Float64Histogram

	mu     sync.RWMutex
	closed bool
}

// NewService creates a toolchain service. A nil cfg uses
// DefaultServiceConfig; a nil logger discards logs.
func NewService(cfg *Config, logger *logging.Logger) (Service, error) {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	if cfg.Compiler == "" {
		return nil, errors.New("compiler binary is required")
	}
	if cfg.Disassembler == "" {
		return nil, errors.New("disassembler binary is required")
	}
	if cfg.Timeout < 0 {
		return nil, errors.New("timeout cannot be negative")
	}
	if cfg.MaxParallel < 0 {
		return nil, errors.New("max parallel cannot be negative")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &service{
		config: cfg,
		logger: logger,
		tracer: otel.Tracer(instrumentationName),
		meter:  otel.Meter(instrumentationName),
	}
	if cfg.MaxParallel > 0 {
		s.sem = semaphore.NewWeighted(int64(cfg.MaxParallel))
	}
	s.initMetrics()

	return s, nil
}

func (s *service) initMetrics() {
	var err error

	s.invocations, err = s.meter.Int64Counter(
		"ctoolsd.ctool.invocations_total",
		metric.WithDescription("Total tool invocations by tool, outcome, and failed stage"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		s.logger.Warn(context.Background(), "failed to create invocation counter", zap.Error(err))
	}

	s.duration, err = s.meter.Float64Histogram(
		"ctoolsd.ctool.duration_seconds",
		metric.WithDescription("Tool invocation duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		s.logger.Warn(context.Background(), "failed to create duration histogram", zap.Error(err))
	}
}

func (s *service) Compile(ctx context.Context, args map[string]any, obs Observer) (res *CompileResult) {
	ctx, span := s.tracer.Start(ctx, "ctool.compile")
	defer span.End()
	if obs == nil {
		obs = NopObserver{}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "recovered panic in compile",
				zap.Any("panic", r),
				zap.Stack("stack"))
			obs.Error(ctx, fmt.Sprintf("unhandled error: %v", r))
			res = &CompileResult{Error: fmt.Sprintf("%v", r)}
		}
		s.recordInvocation(ctx, span, "compile", res.Success, "", time.Since(start), res.Error)
	}()

	req, verr := validateCompileArgs(args)
	if verr != nil {
		obs.Error(ctx, verr.Error())
		return &CompileResult{Error: verr.Error()}
	}
	span.SetAttributes(attribute.String("ctool.output_file", req.OutputFile))

	if s.isClosed() {
		obs.Error(ctx, "service is closed")
		return &CompileResult{Error: "service is closed"}
	}

	source, err := resolveSource(req.Code)
	if err != nil {
		obs.Error(ctx, err.Error())
		return &CompileResult{Error: err.Error()}
	}

	out, err := s.runCompile(ctx, obs, source, req.OutputFile, req.Options, req.Verbose)
	if err != nil {
		result := &CompileResult{Error: err.Error()}
		var cerr *CompileError
		if errors.As(err, &cerr) {
			result.Returncode = cerr.Returncode
		}
		return result
	}

	s.logger.Info(ctx, "compiled C source",
		zap.String("output_file", out.outputFile),
		zap.Int("source_bytes", len(source)))

	return &CompileResult{
		Success:    true,
		Message:    fmt.Sprintf("Successfully compiled to %s", out.outputFile),
		Stdout:     out.stdout,
		OutputFile: out.outputFile,
	}
}

func (s *service) Disassemble(ctx context.Context, args map[string]any, obs Observer) (res *DisassembleResult) {
	ctx, span := s.tracer.Start(ctx, "ctool.disassemble")
	defer span.End()
	if obs == nil {
		obs = NopObserver{}
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "recovered panic in disassemble",
				zap.Any("panic", r),
				zap.Stack("stack"))
			obs.Error(ctx, fmt.Sprintf("unhandled error: %v", r))
			res = &DisassembleResult{Error: fmt.Sprintf("%v", r)}
		}
		s.recordInvocation(ctx, span, "disassemble", res.Success, res.Stage, time.Since(start), res.Error)
	}()

	req, verr := validateDisassembleArgs(args)
	if verr != nil {
		obs.Error(ctx, verr.Error())
		return &DisassembleResult{Error: verr.Error(), Stage: StageValidation}
	}
	span.SetAttributes(attribute.Bool("ctool.is_source_code", req.IsSourceCode))

	if s.isClosed() {
		obs.Error(ctx, "service is closed")
		return &DisassembleResult{Error: "service is closed"}
	}

	assembly, err := s.runDisassemble(ctx, obs, req)
	if err != nil {
		result := &DisassembleResult{Error: err.Error()}
		var serr *stageError
		if errors.As(err, &serr) {
			result.Stage = serr.stage
		}
		return result
	}

	s.logger.Info(ctx, "disassembled target",
		zap.Bool("is_source_code", req.IsSourceCode),
		zap.Int("assembly_bytes", len(assembly)))

	return &DisassembleResult{Success: true, Assembly: assembly}
}

func (s *service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *service) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *service) recordInvocation(ctx context.Context, span trace.Span, tool string, success bool, stage string, elapsed time.Duration, errText string) {
	span.SetAttributes(attribute.Bool("ctool.success", success))
	if !success {
		span.SetStatus(codes.Error, errText)
		if stage != "" {
			span.SetAttributes(attribute.String("ctool.stage", stage))
		}
	}

	attrs := []attribute.KeyValue{
		attribute.String("tool", tool),
		attribute.Bool("success", success),
	}
	if stage != "" {
		attrs = append(attrs, attribute.String("stage", stage))
	}
	if s.invocations != nil {
		s.invocations.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	if s.duration != nil {
		s.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("tool", tool)))
	}
}
