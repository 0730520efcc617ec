package internaldefs

import (
	"github.com/jokio/jokauth"
)

// CounterDef names one verifier counter for exporters.
type CounterDef struct {
	ID   jokauth.MetricID
	Name string
	Help string
	// Outcome labels the counter in exporters that publish one instrument
	// with an outcome attribute.
	Outcome string
}

// HistogramDef names one verifier histogram for exporters.
type HistogramDef struct {
	ID   jokauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter.
var CounterDefs = []CounterDef{
	{ID: jokauth.MetricDecodeSuccess, Name: "jokauth_decode_success_total", Help: "Tokens accepted by Decode.", Outcome: "success"},
	{ID: jokauth.MetricDecodeMalformed, Name: "jokauth_decode_malformed_total", Help: "Tokens rejected as malformed.", Outcome: "malformed"},
	{ID: jokauth.MetricDecodeInvalidSignature, Name: "jokauth_decode_invalid_signature_total", Help: "Tokens whose signature did not verify.", Outcome: "invalid_signature"},
	{ID: jokauth.MetricDecodeWrongNamespace, Name: "jokauth_decode_wrong_namespace_total", Help: "Validly signed tokens without the claims marker field.", Outcome: "wrong_namespace"},
	{ID: jokauth.MetricDecodeInternal, Name: "jokauth_decode_internal_total", Help: "Unexpected failures while decoding.", Outcome: "internal"},
	{ID: jokauth.MetricDecodeShapeMismatch, Name: "jokauth_decode_shape_mismatch_total", Help: "Typed decodes whose claims did not fit the target type.", Outcome: "shape_mismatch"},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: jokauth.MetricDecodeLatency, Name: "jokauth_decode_latency_seconds", Help: "Decode latency histogram."},
}

// DecodeOutcomesName is the single attributed counter used by the OTel exporter.
const DecodeOutcomesName = "jokauth.decode.outcomes"

// DecodeOutcomesHelp describes DecodeOutcomesName.
const DecodeOutcomesHelp = "Decode calls by outcome."

// AuditDroppedName is the counter of audit events dropped under backpressure.
const AuditDroppedName = "jokauth_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// HistogramUpperBounds are the bucket upper bounds in seconds, excluding +Inf.
var HistogramUpperBounds = []float64{
	0.00005,
	0.0001,
	0.00025,
	0.0005,
	0.001,
	0.0025,
	0.005,
}

// HistogramBoundSuffix names each bucket, +Inf included, for exporters that
// flatten buckets into separate instruments.
var HistogramBoundSuffix = []string{
	"0_00005",
	"0_0001",
	"0_00025",
	"0_0005",
	"0_001",
	"0_0025",
	"0_005",
	"inf",
}

// NormalizeBuckets copies raw into a fixed eight-bucket array.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
