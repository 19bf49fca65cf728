package services

import "context"

type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	userIDKey     contextKey = "user_id"
	submissionKey contextKey = "submission"
)

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithUserID annotates context with the signed-in identity.
func WithUserID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the signed-in identity if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSubmission annotates context with an identification submission ticket.
func WithSubmission(ctx context.Context, seq uint64) context.Context {
	return context.WithValue(ctx, submissionKey, seq)
}

// SubmissionFromContext extracts the submission ticket if present.
func SubmissionFromContext(ctx context.Context) (uint64, bool) {
	switch val := ctx.Value(submissionKey).(type) {
	case uint64:
		return val, true
	case int:
		if val >= 0 {
			return uint64(val), true
		}
	}
	return 0, false
}
