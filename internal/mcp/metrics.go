package mcp

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/ctoolsd/internal/ctool"
	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
)

const instrumentationName = "github.com/fyrsmithlabs/ctoolsd/internal/mcp"

// Metrics instruments tool calls: totals, latency, failures by reason,
// and how many calls are in flight.
type Metrics struct {
	logger *logging.Logger

	calls    metric.Int64Counter
	latency  metric.Float64Histogram
	failures metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

// NewMetrics builds the tool instruments against the global meter
// provider. An instrument that fails to register stays nil and recording
// to it is a no-op.
func NewMetrics(logger *logging.Logger) *Metrics {
	return newMetricsWithMeter(otel.Meter(instrumentationName), logger)
}

func newMetricsWithMeter(meter metric.Meter, logger *logging.Logger) *Metrics {
	m := &Metrics{logger: logger}

	var err error
	if m.calls, err = meter.Int64Counter(
		"ctoolsd.mcp.tool.invocations_total",
		metric.WithDescription("Tool calls served"),
		metric.WithUnit("{invocation}"),
	); err != nil {
		m.skip("invocations_total", err)
	}

	if m.latency, err = meter.Float64Histogram(
		"ctoolsd.mcp.tool.duration_seconds",
		metric.WithDescription("Wall time per tool call"),
		metric.WithUnit("s"),
		// Upper buckets sized for compiler subprocess runs, which can
		// take up to the configured timeout (30s default).
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
		),
	); err != nil {
		m.skip("duration_seconds", err)
	}

	if m.failures, err = meter.Int64Counter(
		"ctoolsd.mcp.tool.failures_total",
		metric.WithDescription("Tool calls that came back failed, by reason"),
		metric.WithUnit("{failure}"),
	); err != nil {
		m.skip("failures_total", err)
	}

	if m.inflight, err = meter.Int64UpDownCounter(
		"ctoolsd.mcp.tool.active_requests",
		metric.WithDescription("Tool calls currently in flight"),
		metric.WithUnit("{request}"),
	); err != nil {
		m.skip("active_requests", err)
	}

	return m
}

func (m *Metrics) skip(instrument string, err error) {
	m.logger.Warn(context.Background(), "metric instrument unavailable",
		zap.String("instrument", instrument), zap.Error(err))
}

// RecordInvocation counts one finished tool call and its wall time. A
// non-empty failureReason also bumps the failure counter under that
// reason label.
func (m *Metrics) RecordInvocation(ctx context.Context, toolName string, took time.Duration, failureReason string) {
	tool := attribute.String("tool", toolName)

	if m.calls != nil {
		m.calls.Add(ctx, 1, metric.WithAttributes(tool))
	}
	if m.latency != nil {
		m.latency.Record(ctx, took.Seconds(), metric.WithAttributes(tool))
	}
	if failureReason != "" && m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(tool, attribute.String("reason", failureReason)))
	}
}

// IncrementActive marks one more call in flight for toolName.
func (m *Metrics) IncrementActive(ctx context.Context, toolName string) {
	m.addInflight(ctx, toolName, 1)
}

// DecrementActive marks one call done for toolName.
func (m *Metrics) DecrementActive(ctx context.Context, toolName string) {
	m.addInflight(ctx, toolName, -1)
}

func (m *Metrics) addInflight(ctx context.Context, toolName string, delta int64) {
	if m.inflight == nil {
		return
	}
	m.inflight.Add(ctx, delta, metric.WithAttributes(attribute.String("tool", toolName)))
}

// compileFailureReason classifies a failed compile record. The record has
// no stage field, so the returncode and error text stand in.
func compileFailureReason(res *ctool.CompileResult) string {
	switch {
	case res.Returncode != 0:
		return "compile_error"
	case strings.Contains(res.Error, "invalid arguments"):
		return "validation_error"
	case strings.Contains(res.Error, "reading source file"):
		return "read_error"
	case strings.Contains(res.Error, "timed out"):
		return "timeout"
	default:
		return "internal_error"
	}
}

// disassembleFailureReason maps a failed disassemble record's stage to a
// metric reason label.
func disassembleFailureReason(res *ctool.DisassembleResult) string {
	switch res.Stage {
	case ctool.StageValidation:
		return "validation_error"
	case ctool.StageReadSource:
		return "read_error"
	case ctool.StageCompilation:
		return "compile_error"
	case ctool.StageDisassembly:
		return "disassemble_error"
	default:
		return "internal_error"
	}
}
