package jokauth

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one verifier counter or histogram.
type MetricID uint16

const (
	// MetricDecodeSuccess counts tokens accepted by Decode.
	MetricDecodeSuccess MetricID = iota
	// MetricDecodeMalformed counts tokens rejected as malformed.
	MetricDecodeMalformed
	// MetricDecodeInvalidSignature counts tokens whose signature did not verify.
	MetricDecodeInvalidSignature
	// MetricDecodeWrongNamespace counts validly signed tokens without the marker field.
	MetricDecodeWrongNamespace
	// MetricDecodeInternal counts unexpected failures while decoding.
	MetricDecodeInternal
	// MetricDecodeShapeMismatch counts DecodeAs calls whose claims did not fit the target type.
	MetricDecodeShapeMismatch
	// MetricDecodeLatency is the decode latency histogram.
	MetricDecodeLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets  [histBucketCount]uint64
	sumNanos uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters for the decode path.
//
// Metrics is safe for concurrent use; a disabled or nil Metrics ignores updates.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
// HistogramSums holds the total observed duration per histogram.
type MetricsSnapshot struct {
	Counters      map[MetricID]uint64
	Histograms    map[MetricID][]uint64
	HistogramSums map[MetricID]time.Duration
}

// NewMetrics builds a Metrics from cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram id. Only MetricDecodeLatency has a histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricDecodeLatency {
		return
	}

	if d < 0 {
		d = 0
	}
	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
	atomic.AddUint64(&m.histograms[id].sumNanos, uint64(d))
}

// Value returns the current value of counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies all counters and, when enabled, the latency histogram.
// Histogram buckets are non-cumulative.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return emptySnapshot()
	}

	s := MetricsSnapshot{
		Counters:      make(map[MetricID]uint64, int(metricIDCount)),
		Histograms:    make(map[MetricID][]uint64, 1),
		HistogramSums: make(map[MetricID]time.Duration, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricDecodeLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricDecodeLatency].buckets[i])
		}
		s.Histograms[MetricDecodeLatency] = buckets
		s.HistogramSums[MetricDecodeLatency] = time.Duration(atomic.LoadUint64(&m.histograms[MetricDecodeLatency].sumNanos))
	}

	return s
}

func emptySnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Counters:      map[MetricID]uint64{},
		Histograms:    map[MetricID][]uint64{},
		HistogramSums: map[MetricID]time.Duration{},
	}
}

// failureMetric maps a failure kind to its counter.
func failureMetric(kind FailureKind) MetricID {
	switch kind {
	case FailureNone:
		return MetricDecodeSuccess
	case FailureMalformed:
		return MetricDecodeMalformed
	case FailureInvalidSignature:
		return MetricDecodeInvalidSignature
	case FailureWrongNamespace:
		return MetricDecodeWrongNamespace
	default:
		return MetricDecodeInternal
	}
}

// bucketIndex places a decode duration into one of eight buckets with upper
// bounds 50µs, 100µs, 250µs, 500µs, 1ms, 2.5ms, 5ms and +Inf.
func bucketIndex(d time.Duration) int {
	switch {
	case d <= 50*time.Microsecond:
		return 0
	case d <= 100*time.Microsecond:
		return 1
	case d <= 250*time.Microsecond:
		return 2
	case d <= 500*time.Microsecond:
		return 3
	case d <= time.Millisecond:
		return 4
	case d <= 2500*time.Microsecond:
		return 5
	case d <= 5*time.Millisecond:
		return 6
	default:
		return 7
	}
}
