package otel

import (
	"context"
	"errors"
	"fmt"

	"github.com/jokio/jokauth"
	"github.com/jokio/jokauth/metrics/export/internaldefs"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	// ErrNilMeter is returned when no meter is supplied.
	ErrNilMeter = errors.New("nil meter")
	// ErrNilSource is returned when there is nothing to read metrics from.
	ErrNilSource = errors.New("nil metrics source")
)

type metricsSource interface {
	MetricsSnapshot() jokauth.MetricsSnapshot
	AuditDropped() uint64
}

type outcome struct {
	id  jokauth.MetricID
	set metric.MeasurementOption
}

type observedHistogram struct {
	id      jokauth.MetricID
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
	sum     metric.Float64ObservableGauge
}

// OTelExporter publishes verifier metrics through observable OTel instruments.
// Values are read from the snapshot on every collection cycle.
//
// Decode outcomes share one counter, jokauth.decode.outcomes, with an
// "outcome" attribute. OTel has no observable histogram, so each latency
// bucket is a cumulative gauge.
type OTelExporter struct {
	source       metricsSource
	registration metric.Registration
	outcomes     metric.Int64ObservableCounter
	outcomeSets  []outcome
	histograms   []observedHistogram
	auditDropped metric.Int64ObservableCounter
}

// NewOTelExporter registers instruments on meter that read from v.
func NewOTelExporter(meter metric.Meter, v *jokauth.Verifier) (*OTelExporter, error) {
	if v == nil {
		return nil, ErrNilSource
	}
	return NewOTelExporterFromSource(meter, v)
}

// NewOTelExporterFromSource registers instruments on meter that read from source.
func NewOTelExporterFromSource(meter metric.Meter, source metricsSource) (*OTelExporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &OTelExporter{
		source:      source,
		outcomeSets: make([]outcome, 0, len(internaldefs.CounterDefs)),
		histograms:  make([]observedHistogram, 0, len(internaldefs.HistogramDefs)),
	}

	outcomes, err := meter.Int64ObservableCounter(
		internaldefs.DecodeOutcomesName,
		metric.WithDescription(internaldefs.DecodeOutcomesHelp),
	)
	if err != nil {
		return nil, fmt.Errorf("create outcome counter: %w", err)
	}
	exporter.outcomes = outcomes
	for _, def := range internaldefs.CounterDefs {
		exporter.outcomeSets = append(exporter.outcomeSets, outcome{
			id:  def.ID,
			set: metric.WithAttributeSet(attribute.NewSet(attribute.String("outcome", def.Outcome))),
		})
	}

	observables := make([]metric.Observable, 0, 2+len(internaldefs.HistogramDefs)*10)
	observables = append(observables, outcomes)

	for _, def := range internaldefs.HistogramDefs {
		h := observedHistogram{id: def.ID}
		for i, suffix := range internaldefs.HistogramBoundSuffix {
			name := def.Name + "_bucket_le_" + suffix
			ins, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative histogram bucket count."))
			if err != nil {
				return nil, fmt.Errorf("create histogram bucket gauge %s: %w", name, err)
			}
			h.buckets[i] = ins
			observables = append(observables, ins)
		}
		countName := def.Name + "_count"
		countIns, err := meter.Int64ObservableGauge(countName, metric.WithDescription("Histogram total sample count."))
		if err != nil {
			return nil, fmt.Errorf("create histogram count gauge %s: %w", countName, err)
		}
		h.count = countIns
		observables = append(observables, countIns)

		sumName := def.Name + "_sum"
		sumIns, err := meter.Float64ObservableGauge(sumName,
			metric.WithDescription("Histogram total observed latency."),
			metric.WithUnit("s"),
		)
		if err != nil {
			return nil, fmt.Errorf("create histogram sum gauge %s: %w", sumName, err)
		}
		h.sum = sumIns
		observables = append(observables, sumIns)
		exporter.histograms = append(exporter.histograms, h)
	}

	auditDropped, err := meter.Int64ObservableCounter(
		internaldefs.AuditDroppedName,
		metric.WithDescription(internaldefs.AuditDroppedHelp),
	)
	if err != nil {
		return nil, fmt.Errorf("create audit dropped counter: %w", err)
	}
	exporter.auditDropped = auditDropped
	observables = append(observables, auditDropped)

	registration, err := meter.RegisterCallback(exporter.observe, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

func (e *OTelExporter) observe(_ context.Context, observer metric.Observer) error {
	snapshot := e.source.MetricsSnapshot()

	if len(snapshot.Counters) > 0 {
		for _, o := range e.outcomeSets {
			observer.ObserveInt64(e.outcomes, int64(snapshot.Counters[o.id]), o.set)
		}
	}

	for _, h := range e.histograms {
		raw, ok := snapshot.Histograms[h.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		for i := 0; i < len(cumulative); i++ {
			observer.ObserveInt64(h.buckets[i], int64(cumulative[i]))
		}
		observer.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
		observer.ObserveFloat64(h.sum, snapshot.HistogramSums[h.id].Seconds())
	}

	observer.ObserveInt64(e.auditDropped, int64(e.source.AuditDropped()))
	return nil
}

// Close unregisters the collection callback.
func (e *OTelExporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
