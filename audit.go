package jokauth

import (
	"io"
	"log/slog"

	"github.com/jokio/jokauth/internal/audit"
)

// AuditEvent records the outcome of one Decode call. It never contains the token.
type AuditEvent = audit.Event

// AuditSink receives audit events from the Verifier's background dispatcher.
type AuditSink = audit.Sink

// NoOpSink discards audit events.
type NoOpSink = audit.NoOpSink

// ChannelSink delivers audit events on a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes audit events as JSON lines.
type JSONWriterSink = audit.JSONWriterSink

// SlogSink writes audit events through a *slog.Logger.
type SlogSink = audit.SlogSink

// NewChannelSink returns a sink whose Events channel has the given buffer.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing one JSON object per line to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewSlogSink returns a sink logging through logger (slog.Default when nil).
func NewSlogSink(logger *slog.Logger) *SlogSink {
	return audit.NewSlogSink(logger)
}
