package observability

import (
	"context"
)

// Context keys for observability data.
type contextKey string

const (
	requestIDKey contextKey = "request_id"
	studentIDKey contextKey = "stu_id"
	profileKey   contextKey = "profile"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, requestIDKey)
}

// WithStudentID adds the student a request concerns to the context.
func WithStudentID(ctx context.Context, stuID string) context.Context {
	return context.WithValue(ctx, studentIDKey, stuID)
}

// StudentIDFromContext retrieves the student ID from context.
func StudentIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, studentIDKey)
}

// WithProfileName records the name of the data profile serving a request.
func WithProfileName(ctx context.Context, profile string) context.Context {
	return context.WithValue(ctx, profileKey, profile)
}

// ProfileNameFromContext retrieves the data profile name from context.
func ProfileNameFromContext(ctx context.Context) string {
	return stringFromContext(ctx, profileKey)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if v := ctx.Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequestContext contains the observability data carried by a request.
type RequestContext struct {
	RequestID string
	StudentID string
	Profile   string
}

// WithRequestContextFull adds every non-empty field of rc to the context.
func WithRequestContextFull(ctx context.Context, rc RequestContext) context.Context {
	if rc.RequestID != "" {
		ctx = WithRequestID(ctx, rc.RequestID)
	}
	if rc.StudentID != "" {
		ctx = WithStudentID(ctx, rc.StudentID)
	}
	if rc.Profile != "" {
		ctx = WithProfileName(ctx, rc.Profile)
	}
	return ctx
}

// RequestContextFromContext extracts all request context from the context.
func RequestContextFromContext(ctx context.Context) RequestContext {
	return RequestContext{
		RequestID: RequestIDFromContext(ctx),
		StudentID: StudentIDFromContext(ctx),
		Profile:   ProfileNameFromContext(ctx),
	}
}
