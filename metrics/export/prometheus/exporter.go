package prometheus

import (
	"net/http"

	"github.com/jokio/jokauth"
	"github.com/jokio/jokauth/metrics/export/internaldefs"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metricsSource interface {
	MetricsSnapshot() jokauth.MetricsSnapshot
	AuditDropped() uint64
}

type counterDesc struct {
	id   jokauth.MetricID
	desc *prom.Desc
}

// PrometheusExporter is a prometheus.Collector over verifier metrics. Values
// are read from the snapshot at scrape time; nothing is copied in between.
type PrometheusExporter struct {
	source       metricsSource
	counters     []counterDesc
	histograms   []counterDesc
	auditDropped *prom.Desc
}

var _ prom.Collector = (*PrometheusExporter)(nil)

// NewPrometheusExporter creates a collector reading from v.
func NewPrometheusExporter(v *jokauth.Verifier) *PrometheusExporter {
	return NewPrometheusExporterFromSource(v)
}

// NewPrometheusExporterFromSource creates a collector from any snapshot source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	p := &PrometheusExporter{
		source:     source,
		counters:   make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		histograms: make([]counterDesc, 0, len(internaldefs.HistogramDefs)),
		auditDropped: prom.NewDesc(
			internaldefs.AuditDroppedName,
			internaldefs.AuditDroppedHelp,
			nil, nil,
		),
	}
	for _, def := range internaldefs.CounterDefs {
		p.counters = append(p.counters, counterDesc{
			id:   def.ID,
			desc: prom.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	for _, def := range internaldefs.HistogramDefs {
		p.histograms = append(p.histograms, counterDesc{
			id:   def.ID,
			desc: prom.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	return p
}

// Describe implements prometheus.Collector.
func (p *PrometheusExporter) Describe(ch chan<- *prom.Desc) {
	for _, c := range p.counters {
		ch <- c.desc
	}
	for _, h := range p.histograms {
		ch <- h.desc
	}
	ch <- p.auditDropped
}

// Collect implements prometheus.Collector. Nothing is collected while metrics
// are disabled and no audit event was dropped.
func (p *PrometheusExporter) Collect(ch chan<- prom.Metric) {
	if p == nil || p.source == nil {
		return
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return
	}

	for _, c := range p.counters {
		ch <- prom.MustNewConstMetric(c.desc, prom.CounterValue, float64(snapshot.Counters[c.id]))
	}

	for _, h := range p.histograms {
		raw, ok := snapshot.Histograms[h.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for i, bound := range internaldefs.HistogramUpperBounds {
			buckets[bound] = cumulative[i]
		}
		sum := snapshot.HistogramSums[h.id].Seconds()
		ch <- prom.MustNewConstHistogram(h.desc, cumulative[len(cumulative)-1], sum, buckets)
	}

	ch <- prom.MustNewConstMetric(p.auditDropped, prom.CounterValue, float64(dropped))
}

// Handler serves this collector alone from a private registry.
func (p *PrometheusExporter) Handler() http.Handler {
	reg := prom.NewRegistry()
	reg.MustRegister(p)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
