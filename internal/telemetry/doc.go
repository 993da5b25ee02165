// Package telemetry wires ctoolsd into OpenTelemetry.
//
// It exports traces and metrics to a collector over OTLP, speaking gRPC
// by default or http/protobuf when configured. Everything is off until
// the operator enables it:
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  service_name: "ctoolsd"
//	  sampling:
//	    rate: 1.0
//	  metrics:
//	    enabled: true
//	    export_interval: "15s"
//
// A process holds one Telemetry instance and hands out scoped tracers
// and meters from it:
//
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	tracer := tel.Tracer("ctoolsd.ctool")
//	ctx, span := tracer.Start(ctx, "Service.Compile")
//	defer span.End()
//
// Failures to reach the collector degrade the instance to no-op
// providers; compilation and disassembly keep working without export.
//
// Tests use NewTestTelemetry, which swaps the OTLP exporters for an
// in-memory span recorder and manual metric reader.
package telemetry
