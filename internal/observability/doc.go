// Package observability provides logging and metrics support for the records
// service.
//
// # Logging
//
// Create a logger from configuration:
//
//	logger := observability.NewLogger(observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	})
//	logger = observability.WithRequestContext(logger, requestID, profile)
//
// # Metrics
//
// Repository statements, HTTP requests and pool sizes are exported through
// Metrics. A nil *Metrics records nothing, so components accept one
// optionally:
//
//	metrics := observability.NewMetrics("student_records")
//	metrics.RecordStatement("stexam", "insert", observability.OutcomeSuccess, 0.004)
//
// # Context Helpers
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	reqID := observability.RequestIDFromContext(ctx)
//
// # Standard Fields
//
//   - request_id: correlation identifier of the HTTP request
//   - profile: data profile used to resolve table names
//   - stu_id: student identifier
//   - table: physical table a statement ran against
//   - operation: repository operation (insert, delete, query, update)
package observability
