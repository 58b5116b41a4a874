package runcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

var (
	keyRunID     contextKey = "run_id"
	keyOperation contextKey = "operation"
	keyStartTime contextKey = "run_start_time"
)

// defaultRunTimeout bounds one pipeline invocation; the underlying AI
// clients carry their own per-call timeouts.
const defaultRunTimeout = 10 * time.Minute

// RunMetadata holds metadata for one pipeline or brief run.
type RunMetadata struct {
	RunID     uuid.UUID
	Operation string
	StartTime time.Time
}

// Begin derives a bounded context carrying run metadata. The caller must
// invoke the returned cancel when the run finishes.
func Begin(parentCtx context.Context, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, defaultRunTimeout)

	ctx = context.WithValue(ctx, keyRunID, uuid.New())
	ctx = context.WithValue(ctx, keyOperation, operation)
	ctx = context.WithValue(ctx, keyStartTime, time.Now())

	return ctx, cancel
}

// RunID extracts the run ID from context
func RunID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyRunID).(uuid.UUID)
	return id, ok
}

// Operation extracts the operation name from context
func Operation(ctx context.Context) (string, bool) {
	op, ok := ctx.Value(keyOperation).(string)
	return op, ok
}

// Metadata extracts all run metadata from context
func Metadata(ctx context.Context) *RunMetadata {
	id, _ := RunID(ctx)
	op, _ := Operation(ctx)
	start, _ := ctx.Value(keyStartTime).(time.Time)

	return &RunMetadata{
		RunID:     id,
		Operation: op,
		StartTime: start,
	}
}

// IsRetryableError checks if a provider error should trigger a retry
// against the same backend before falling over to the secondary one.
// Retryable errors include network errors, timeouts, and rate limits.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
