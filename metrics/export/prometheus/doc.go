// Package prometheus exposes jokauth verifier metrics as a Prometheus collector.
//
// [NewPrometheusExporter] wraps a [jokauth.Verifier]. The exporter can be
// registered with any prometheus.Registerer, or mounted directly through
// [PrometheusExporter.Handler]. Counter names are prefixed jokauth_*_total; the
// single histogram is jokauth_decode_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry.
//   - Mutate verifier state.
package prometheus
