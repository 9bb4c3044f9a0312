package monitoring

import (
	"context"
	"maps"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

// SentryReporter sends events through a private hub, so nothing touches the
// sentry package's global hub.
type SentryReporter struct {
	hub    *sentry.Hub
	logger interfaces.Logger
}

var _ interfaces.ErrorReporter = (*SentryReporter)(nil)

func newSentryReporter(opts sentry.ClientOptions, logger interfaces.Logger) (*SentryReporter, error) {
	client, err := sentry.NewClient(opts)
	if err != nil {
		return nil, err
	}
	return &SentryReporter{
		hub:    sentry.NewHub(client, sentry.NewScope()),
		logger: logger,
	}, nil
}

// CaptureError reports err with tags. Structured fields stored on ctx are
// attached as the "featuregate" context.
func (r *SentryReporter) CaptureError(ctx context.Context, err error, tags map[string]string) string {
	if err == nil {
		return ""
	}
	var id *sentry.EventID
	r.hub.WithScope(func(scope *sentry.Scope) {
		r.prepareScope(ctx, scope, tags)
		id = r.hub.CaptureException(err)
	})
	return r.eventID(id, "monitoring.capture.error")
}

func (r *SentryReporter) CaptureMessage(ctx context.Context, msg string, tags map[string]string) string {
	if strings.TrimSpace(msg) == "" {
		return ""
	}
	var id *sentry.EventID
	r.hub.WithScope(func(scope *sentry.Scope) {
		r.prepareScope(ctx, scope, tags)
		id = r.hub.CaptureMessage(msg)
	})
	return r.eventID(id, "monitoring.capture.message")
}

func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

func (r *SentryReporter) prepareScope(ctx context.Context, scope *sentry.Scope, tags map[string]string) {
	if len(tags) > 0 {
		scope.SetTags(maps.Clone(tags))
	}
	if fields := logging.ContextFields(ctx); len(fields) > 0 {
		scope.SetContext("featuregate", sentry.Context(fields))
	}
}

func (r *SentryReporter) eventID(id *sentry.EventID, msg string) string {
	if id == nil {
		r.logger.Debug(msg, "sent", false)
		return ""
	}
	r.logger.Debug(msg, "sent", true, "event_id", string(*id))
	return string(*id)
}
