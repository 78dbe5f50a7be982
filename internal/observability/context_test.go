package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}

func TestStudentID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, StudentIDFromContext(ctx))

	ctx = WithStudentID(ctx, "888123456")
	assert.Equal(t, "888123456", StudentIDFromContext(ctx))
}

func TestProfileName(t *testing.T) {
	ctx := WithProfileName(context.Background(), "test")
	assert.Equal(t, "test", ProfileNameFromContext(ctx))
}

func TestContextValueOfWrongTypeIsIgnored(t *testing.T) {
	ctx := context.WithValue(context.Background(), requestIDKey, 42)
	assert.Empty(t, RequestIDFromContext(ctx))
}

func TestRequestContextRoundTrip(t *testing.T) {
	rc := RequestContext{RequestID: "req-1", StudentID: "888000001", Profile: "prod"}
	ctx := WithRequestContextFull(context.Background(), rc)
	assert.Equal(t, rc, RequestContextFromContext(ctx))

	partial := WithRequestContextFull(context.Background(), RequestContext{Profile: "dev"})
	got := RequestContextFromContext(partial)
	assert.Empty(t, got.RequestID)
	assert.Empty(t, got.StudentID)
	assert.Equal(t, "dev", got.Profile)
}
