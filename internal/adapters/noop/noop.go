package noop

import (
	"context"
	"time"

	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

// Reporter returns an error reporter that drops everything. It stands in
// when monitoring is disabled.
func Reporter() interfaces.ErrorReporter {
	return reporterAdapter{}
}

type reporterAdapter struct{}

func (reporterAdapter) CaptureError(context.Context, error, map[string]string) string {
	return ""
}

func (reporterAdapter) CaptureMessage(context.Context, string, map[string]string) string {
	return ""
}

func (reporterAdapter) Flush(time.Duration) bool {
	return true
}
