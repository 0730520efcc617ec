package jokauth

import "context"

// requestMeta is the caller information copied into audit events.
type requestMeta struct {
	ip        string
	userAgent string
}

type requestMetaKey struct{}

// WithClientIP attaches the caller's IP address to ctx. The Verifier copies it
// into audit events.
func WithClientIP(ctx context.Context, ip string) context.Context {
	meta := metaFromContext(ctx)
	meta.ip = ip
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// WithUserAgent attaches the HTTP User-Agent string to ctx for audit events.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	meta := metaFromContext(ctx)
	meta.userAgent = userAgent
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

func metaFromContext(ctx context.Context) requestMeta {
	if ctx == nil {
		return requestMeta{}
	}
	meta, _ := ctx.Value(requestMetaKey{}).(requestMeta)
	return meta
}

func clientIPFromContext(ctx context.Context) string {
	return metaFromContext(ctx).ip
}

func userAgentFromContext(ctx context.Context) string {
	return metaFromContext(ctx).userAgent
}
