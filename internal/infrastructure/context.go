package infrastructure

import "context"

type traceKey struct{}

// WithTraceID stores a trace ID in the context. The HTTP request ID doubles
// as the trace ID, so every log line emitted while serving a request can be
// correlated with its problem responses.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// GetTraceID returns the trace ID carried by the context, or "". The
// request-id string key written by the HTTP middleware is accepted as a
// fallback for contexts that never went through WithTraceID.
func GetTraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceKey{}).(string); ok {
		return id
	}
	if id, ok := ctx.Value("request-id").(string); ok {
		return id
	}
	return ""
}
