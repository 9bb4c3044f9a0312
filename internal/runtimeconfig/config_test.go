package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
)

func TestDefaultConfig_DisablesEveryFeature(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	for _, feature := range runtimeconfig.AllFeatures {
		if cfg.Features.Feature(feature) {
			t.Fatalf("expected %s disabled by default", feature)
		}
	}
	for _, service := range runtimeconfig.AllServices {
		svc, ok := cfg.Services.Lookup(service)
		if !ok {
			t.Fatalf("expected %s record to be present", service)
		}
		if svc.IsEnabled() {
			t.Fatalf("expected %s disabled by default", service)
		}
	}
	if !cfg.UI.ShowDashboard || !cfg.UI.ShowSettings || cfg.UI.ShowAuth || cfg.UI.ShowPaywall {
		t.Fatalf("unexpected default ui: %+v", cfg.UI)
	}
	if cfg.Services.Sentry.TracesSampleRate != 0.2 {
		t.Fatalf("expected default sample rate 0.2, got %v", cfg.Services.Sentry.TracesSampleRate)
	}
}

func TestConfigValidate_AcceptsDefaults(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_AcceptsAnyEnvironment(t *testing.T) {
	for _, env := range []string{"", "staging", "preview", runtimeconfig.EnvTest} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Environment = env
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() rejected environment %q: %v", env, err)
		}
	}
}

func TestConfigValidate_RejectsSampleRateOutOfRange(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Services.Sentry.TracesSampleRate = 1.5

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrTracesSampleRateInvalid) {
		t.Fatalf("expected ErrTracesSampleRateInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownLoggingProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Level = "loud"

	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestConfigClone_DoesNotShareServiceRecords(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Focus = []string{"featuregate.gate"}

	clone := cfg.Clone()
	clone.Services.Clerk.PublishableKey = "pk_test_changed"
	clone.Logging.Focus[0] = "other"

	if cfg.Services.Clerk.PublishableKey != "" {
		t.Fatalf("clone mutated original clerk record")
	}
	if cfg.Logging.Focus[0] != "featuregate.gate" {
		t.Fatalf("clone mutated original focus slice")
	}
}

func TestServicesLookup_ReportsAbsentRecords(t *testing.T) {
	var services runtimeconfig.Services
	if _, ok := services.Lookup(runtimeconfig.ServiceConvex); ok {
		t.Fatalf("expected absent convex record")
	}
	if _, ok := services.Lookup("stripe"); ok {
		t.Fatalf("expected unknown service to be absent")
	}
}

func TestFeaturesSet_RejectsUnknownNames(t *testing.T) {
	var features runtimeconfig.Features
	if features.Set("analytics", true) {
		t.Fatalf("expected Set to reject unknown feature")
	}
	if !features.Set(runtimeconfig.FeaturePayments, true) || !features.Payments {
		t.Fatalf("expected payments to be enabled")
	}
}

func TestPairedService(t *testing.T) {
	cases := map[runtimeconfig.Feature]runtimeconfig.Service{
		runtimeconfig.FeatureAuth:       runtimeconfig.ServiceClerk,
		runtimeconfig.FeatureConvex:     runtimeconfig.ServiceConvex,
		runtimeconfig.FeaturePayments:   runtimeconfig.ServiceRevenueCat,
		runtimeconfig.FeatureMonitoring: runtimeconfig.ServiceSentry,
	}
	for feature, want := range cases {
		got, ok := runtimeconfig.PairedService(feature)
		if !ok || got != want {
			t.Fatalf("PairedService(%s) = %s, %v; want %s", feature, got, ok, want)
		}
	}
	if _, ok := runtimeconfig.PairedService("analytics"); ok {
		t.Fatalf("expected unknown feature to have no service")
	}
}
