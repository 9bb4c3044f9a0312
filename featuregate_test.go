package featuregate_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-featuregate"
	"github.com/goliatone/go-featuregate/internal/di"
	"github.com/goliatone/go-featuregate/internal/tasks"
	"github.com/goliatone/go-featuregate/pkg/testsupport"
)

func newModule(t *testing.T, cfg featuregate.Config) (*featuregate.Module, *testsupport.RecordingLogger) {
	t.Helper()
	rec := testsupport.NewRecordingLogger()
	module, err := featuregate.New(cfg, di.WithLoggerProvider(rec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module, rec
}

func TestModuleDefaultsServeMockTasks(t *testing.T) {
	module, _ := newModule(t, featuregate.DefaultConfig())
	ctx := context.Background()

	if err := module.Initialize(ctx); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if module.Gate().IsFeatureEnabled(featuregate.FeatureConvex) {
		t.Fatal("expected convex to be disabled by default")
	}

	list, err := module.Tasks().List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if list.Source != tasks.SourceMock || len(list.Tasks) != 3 {
		t.Fatalf("expected three mock tasks, got %+v", list)
	}
}

func TestModuleReportIncludesRunAndTasks(t *testing.T) {
	module, _ := newModule(t, featuregate.DefaultConfig())

	rep, err := module.Report(context.Background())
	if err != nil {
		t.Fatalf("Report returned error: %v", err)
	}
	if rep.RunID != module.RunID() || rep.RunID == "" {
		t.Fatalf("expected run id %q, got %q", module.RunID(), rep.RunID)
	}

	md := rep.Markdown()
	for _, want := range []string{"# Feature gate status", "- Run: " + module.RunID(), "## Tasks (mock)", "- [x] Set up Convex"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected markdown to contain %q, got:\n%s", want, md)
		}
	}
}

func TestModuleInitializeProductionInvalid(t *testing.T) {
	cfg := featuregate.DefaultConfig()
	cfg.Environment = featuregate.EnvProduction
	cfg.Features.Payments = true
	cfg.Services.RevenueCat.Enabled = true

	module, rec := newModule(t, cfg)
	err := module.Initialize(context.Background())
	if !errors.Is(err, featuregate.ErrInvalidProductionConfig) {
		t.Fatalf("expected ErrInvalidProductionConfig, got %v", err)
	}
	if got := rec.Messages("error"); len(got) != 1 || got[0] != "Invalid configuration for production environment" {
		t.Fatalf("unexpected error logs %v", got)
	}
}

func TestModulePresetRoundTrip(t *testing.T) {
	cfg, err := featuregate.Preset("auth-only", featuregate.LookupFunc(func(key string) (string, bool) {
		if key == "EXPO_PUBLIC_CLERK_PUBLISHABLE_KEY" {
			return "pk_test_Y2xlcmsuZXhhbXBsZS5jb20k", true
		}
		return "", false
	}))
	if err != nil {
		t.Fatalf("Preset returned error: %v", err)
	}

	module, _ := newModule(t, cfg)
	if !module.Auth().Enabled() {
		t.Fatalf("expected auth binding to be enabled, reason %q", module.Auth().Binding().Reason())
	}
	if module.Payments().Enabled() {
		t.Fatal("expected payments binding to be disabled")
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := featuregate.Preset("kitchen-sink", nil); !errors.Is(err, featuregate.ErrPresetUnknown) {
		t.Fatalf("expected ErrPresetUnknown, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := featuregate.DefaultConfig()
	cfg.Services.Sentry.TracesSampleRate = 2
	if _, err := featuregate.New(cfg); !errors.Is(err, featuregate.ErrTracesSampleRateInvalid) {
		t.Fatalf("expected ErrTracesSampleRateInvalid, got %v", err)
	}
}

func TestModuleNonProductionEnvironmentProceeds(t *testing.T) {
	cfg, err := featuregate.ConfigFromEnv(featuregate.DefaultConfig(), featuregate.LookupFunc(func(key string) (string, bool) {
		switch key {
		case "NODE_ENV":
			return "staging", true
		case "EXPO_PUBLIC_FEATURE_AUTH":
			return "true", true
		}
		return "", false
	}))
	if err != nil {
		t.Fatalf("ConfigFromEnv returned error: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Fatalf("expected staging environment, got %q", cfg.Environment)
	}

	module, rec := newModule(t, cfg)
	if err := module.Initialize(context.Background()); err != nil {
		t.Fatalf("expected staging to continue past validation, got %v", err)
	}
	if got := rec.Messages("warn"); len(got) != 2 || got[0] != "Configuration validation failed" {
		t.Fatalf("expected validation warnings, got %v", got)
	}
	if got := rec.Messages("info"); len(got) != 0 {
		t.Fatalf("expected no feature summary outside development, got %v", got)
	}
	if got := rec.Messages("error"); len(got) != 0 {
		t.Fatalf("expected no error logs, got %v", got)
	}
}
