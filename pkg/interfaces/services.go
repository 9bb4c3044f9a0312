package interfaces

import (
	"context"
	"time"
)

// ErrorReporter forwards errors and diagnostic messages to the monitoring
// backend. A disabled monitoring feature is served by a no-op reporter.
type ErrorReporter interface {
	CaptureError(ctx context.Context, err error, tags map[string]string) string
	CaptureMessage(ctx context.Context, msg string, tags map[string]string) string
	Flush(timeout time.Duration) bool
}

// AuthSettings describes the client-side authentication instance derived from
// a publishable key.
type AuthSettings struct {
	PublishableKey string
	FrontendAPI    string
	Instance       string
}

// PaymentsSettings describes the subscription billing configuration exposed
// to paywall code.
type PaymentsSettings struct {
	APIKey        string
	EntitlementID string
	Platform      string
}
