// Package observability sets up OpenTelemetry tracing and metrics for orchid
// clients. The middleware package records into what it returns.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("billing"))
//	defer tp.Shutdown(ctx)
//
//	client.Use(middleware.Tracing(observability.Tracer(tp)))
//
// Metrics:
//
//	cfg := observability.DefaultMeterConfig("billing")
//	mp, err := observability.InitMeter(ctx, &cfg)
//	defer mp.Shutdown(ctx)
//
//	client.Use(middleware.Metrics(observability.Meter(mp)))
package observability
