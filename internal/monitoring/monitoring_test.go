package monitoring_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/getsentry/sentry-go"

	"github.com/goliatone/go-featuregate/internal/gate"
	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/internal/monitoring"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
	"github.com/goliatone/go-featuregate/pkg/testsupport"
)

const testDSN = "https://public@o0.ingest.sentry.io/0"

type eventRecorder struct {
	mu     sync.Mutex
	events []*sentry.Event
}

// drop records the event and stops it from leaving the process.
func (r *eventRecorder) drop(event *sentry.Event) *sentry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) all() []*sentry.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*sentry.Event(nil), r.events...)
}

func monitoringConfig(dsn string) runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Environment = runtimeconfig.EnvTest
	cfg.Features.Monitoring = true
	cfg.Services.Sentry = &runtimeconfig.SentryConfig{Enabled: true, DSN: dsn, TracesSampleRate: 0.2, Environment: "staging"}
	return cfg
}

func TestProvider_DisabledUsesNoopReporter(t *testing.T) {
	cfg := monitoringConfig(testDSN)
	cfg.Features.Monitoring = false
	provider := monitoring.NewProvider(gate.New(cfg, nil), nil)

	if provider.Enabled() {
		t.Fatalf("expected monitoring disabled")
	}
	reporter := provider.Reporter()
	if id := reporter.CaptureError(context.Background(), errors.New("boom"), nil); id != "" {
		t.Fatalf("expected noop reporter, got event %q", id)
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestProvider_MissingDSNDisables(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	provider := monitoring.NewProvider(gate.New(monitoringConfig(""), nil), logger)

	if provider.Enabled() {
		t.Fatalf("expected disabled binding without dsn")
	}
	if !strings.Contains(provider.Binding().Reason(), monitoring.ErrDSNMissing.Error()) {
		t.Fatalf("unexpected reason %q", provider.Binding().Reason())
	}
	if len(logger.Messages("error")) != 1 {
		t.Fatalf("expected missing dsn to be logged")
	}
}

func TestProvider_InvalidDSNDisables(t *testing.T) {
	provider := monitoring.NewProvider(gate.New(monitoringConfig("not a dsn"), nil), nil)
	if provider.Enabled() {
		t.Fatalf("expected invalid dsn to disable monitoring")
	}
}

func TestSentryReporter_CapturesWithTags(t *testing.T) {
	recorder := &eventRecorder{}
	provider := monitoring.NewProvider(gate.New(monitoringConfig(testDSN), nil), nil,
		monitoring.WithBeforeSend(recorder.drop),
		monitoring.WithRelease("featuregate@test"),
	)
	t.Cleanup(func() { _ = provider.Close() })

	if !provider.Enabled() {
		t.Fatalf("expected monitoring enabled, reason %q", provider.Binding().Reason())
	}

	ctx := logging.ContextWithFields(context.Background(), map[string]any{"run_id": "run-1"})
	reporter := provider.Reporter()
	reporter.CaptureError(ctx, errors.New("boom"), map[string]string{"feature": "convex"})
	reporter.CaptureMessage(ctx, "startup complete", nil)
	reporter.CaptureMessage(ctx, "  ", nil)

	events := recorder.all()
	if len(events) != 2 {
		t.Fatalf("expected two events, got %d", len(events))
	}

	first := events[0]
	if len(first.Exception) == 0 || first.Exception[len(first.Exception)-1].Value != "boom" {
		t.Fatalf("unexpected exception %+v", first.Exception)
	}
	if first.Tags["feature"] != "convex" {
		t.Fatalf("expected feature tag, got %v", first.Tags)
	}
	if first.Environment != "staging" || first.Release != "featuregate@test" {
		t.Fatalf("unexpected environment/release %q %q", first.Environment, first.Release)
	}
	if first.Contexts["featuregate"]["run_id"] != "run-1" {
		t.Fatalf("expected context fields, got %v", first.Contexts)
	}

	if events[1].Message != "startup complete" {
		t.Fatalf("unexpected message %q", events[1].Message)
	}
	if _, ok := events[1].Tags["feature"]; ok {
		t.Fatalf("tags must not leak between captures")
	}
}

func TestProvider_CloseSwitchesToNoopReporter(t *testing.T) {
	recorder := &eventRecorder{}
	provider := monitoring.NewProvider(gate.New(monitoringConfig(testDSN), nil), nil,
		monitoring.WithBeforeSend(recorder.drop),
	)

	provider.Reporter().CaptureMessage(context.Background(), "before close", nil)
	if err := provider.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if provider.Enabled() {
		t.Fatal("expected monitoring disabled after Close")
	}
	provider.Reporter().CaptureMessage(context.Background(), "after close", nil)

	if events := recorder.all(); len(events) != 1 || events[0].Message != "before close" {
		t.Fatalf("expected only the pre-close event, got %d", len(events))
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

func TestProvider_CloseBeforeResolveNeverBuilds(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	provider := monitoring.NewProvider(gate.New(monitoringConfig(testDSN), nil), logger)

	if err := provider.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if provider.Enabled() {
		t.Fatal("expected closed provider to stay disabled")
	}
	for _, msg := range logger.Messages("info") {
		if msg == "monitoring.provider.ready" {
			t.Fatal("expected no client to be built after Close")
		}
	}
}
