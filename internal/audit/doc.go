// Package audit implements async event dispatching for token decode outcomes.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, slog or no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured record carrying the decode outcome and request metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; that responsibility belongs to the jokauth Verifier.
//
// # What this package must NOT do
//
//   - Record token strings or signatures.
//   - Import jokauth or any sibling internal package.
//   - Perform network I/O beyond what a caller-supplied Sink does.
package audit
