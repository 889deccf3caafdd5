package logging

import "context"

type ctxKey struct{}

// CorrelationKey is the field name under which the correlation id is logged.
const CorrelationKey = "correlation_id"

// WithCorrelationID returns a context whose log lines carry id.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, if any.
func CorrelationID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

func withCorrelation(ctx context.Context, args []any) []any {
	id, ok := CorrelationID(ctx)
	if !ok {
		return args
	}
	return append([]any{CorrelationKey, id}, args...)
}
