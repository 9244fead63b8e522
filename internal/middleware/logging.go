package middleware

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the log field holding the request ID
const RequestIDKey = "request_id"

// RequestIDHeader lets callers propagate their own request ID
const RequestIDHeader = "X-Request-ID"

// RequestID picks the request ID for an invocation: the X-Request-ID header
// first, then the Lambda request ID, then a fresh UUID.
func RequestID(ctx context.Context, header string) string {
	if header != "" {
		return header
	}
	if ctx != nil {
		if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
			return lc.AwsRequestID
		}
	}
	return uuid.New().String()
}

// InvocationLog records a single route invocation
type InvocationLog struct {
	entry *logrus.Entry
	start time.Time
}

// StartInvocation opens the log record of an invocation
func StartInvocation(logger *logrus.Logger, fields logrus.Fields) *InvocationLog {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InvocationLog{
		entry: logger.WithFields(fields),
		start: time.Now(),
	}
}

// Complete logs the formatted status code, choosing the level from it
func (l *InvocationLog) Complete(statusCode int) {
	entry := l.entry.WithFields(logrus.Fields{
		"status_code": statusCode,
		"latency_ms":  l.latencyMS(),
	})

	switch {
	case statusCode >= 500:
		entry.Error("Server error")
	case statusCode >= 400:
		entry.Warn("Client error")
	case statusCode >= 300:
		entry.Info("Redirect")
	default:
		entry.Info("Request completed")
	}
}

// Fail logs an invocation that ended without a formatted response
func (l *InvocationLog) Fail(err error) {
	l.entry.WithFields(logrus.Fields{
		"error":      err.Error(),
		"latency_ms": l.latencyMS(),
	}).Error("Invocation failed")
}

func (l *InvocationLog) latencyMS() float64 {
	return float64(time.Since(l.start).Nanoseconds()) / 1000000
}
