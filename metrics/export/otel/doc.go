// Package otel binds jokauth verifier metrics to OpenTelemetry instruments.
//
// [NewOTelExporter] registers one Int64ObservableCounter for decode outcomes,
// one Int64ObservableGauge per latency bucket, and an audit-drop counter. A
// single callback reads [jokauth.Verifier.MetricsSnapshot] on each collection
// cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate verifier state.
package otel
