package auth_test

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/goliatone/go-featuregate/internal/auth"
	"github.com/goliatone/go-featuregate/internal/gate"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
	"github.com/goliatone/go-featuregate/pkg/testsupport"
)

func key(prefix, host string) string {
	return prefix + base64.StdEncoding.EncodeToString([]byte(host+"$"))
}

func authConfig(publishableKey string) runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Auth = true
	cfg.Services.Clerk = &runtimeconfig.ClerkConfig{Enabled: true, PublishableKey: publishableKey}
	cfg.UI.ShowAuth = true
	return cfg
}

func TestParsePublishableKey(t *testing.T) {
	settings, err := auth.ParsePublishableKey(key("pk_test_", "happy-otter-12.clerk.accounts.dev"))
	if err != nil {
		t.Fatalf("ParsePublishableKey returned error: %v", err)
	}
	if settings.FrontendAPI != "happy-otter-12.clerk.accounts.dev" || settings.Instance != auth.InstanceDevelopment {
		t.Fatalf("unexpected settings %+v", settings)
	}

	settings, err = auth.ParsePublishableKey(" " + key("pk_live_", "clerk.example.com") + " ")
	if err != nil || settings.Instance != auth.InstanceProduction || settings.FrontendAPI != "clerk.example.com" {
		t.Fatalf("unexpected live settings %+v, %v", settings, err)
	}
}

func TestParsePublishableKey_Rejects(t *testing.T) {
	cases := map[string]string{
		"prefix":    "sk_test_abc",
		"encoding":  "pk_test_***",
		"no dollar": "pk_test_" + base64.StdEncoding.EncodeToString([]byte("clerk.example.com")),
		"empty":     "pk_live_",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := auth.ParsePublishableKey(raw); !errors.Is(err, auth.ErrPublishableKeyInvalid) {
				t.Fatalf("expected ErrPublishableKeyInvalid, got %v", err)
			}
		})
	}
}

func TestProvider_EnabledWhenUsableAndKeyValid(t *testing.T) {
	provider := auth.NewProvider(gate.New(authConfig(key("pk_test_", "clerk.example.com")), nil), nil)

	settings, ok := provider.Binding().Get()
	if !ok || settings.FrontendAPI != "clerk.example.com" {
		t.Fatalf("expected enabled binding, got %+v", provider.Binding())
	}
	if !provider.SectionVisible() {
		t.Fatalf("expected auth section visible")
	}
}

func TestProvider_MalformedKeyDisables(t *testing.T) {
	logger := testsupport.NewRecordingLogger()
	provider := auth.NewProvider(gate.New(authConfig("pk_test_not-base64!"), nil), logger)

	if provider.Enabled() || provider.SectionVisible() {
		t.Fatalf("expected malformed key to disable auth")
	}
	if len(logger.Messages("error")) != 1 {
		t.Fatalf("expected key error to be logged")
	}
}

func TestProvider_DisabledFeature(t *testing.T) {
	cfg := authConfig(key("pk_test_", "clerk.example.com"))
	cfg.Features.Auth = false
	provider := auth.NewProvider(gate.New(cfg, nil), nil)

	if provider.Enabled() {
		t.Fatalf("expected disabled binding")
	}
	if provider.Binding().Reason() != "feature auth is disabled" {
		t.Fatalf("unexpected reason %q", provider.Binding().Reason())
	}
}

func TestProvider_WarnsForTestKeyInProduction(t *testing.T) {
	cfg := authConfig(key("pk_test_", "clerk.example.com"))
	cfg.Environment = runtimeconfig.EnvProduction
	logger := testsupport.NewRecordingLogger()

	if !auth.NewProvider(gate.New(cfg, nil), logger).Enabled() {
		t.Fatalf("expected binding to stay enabled")
	}
	if warnings := logger.Messages("warn"); len(warnings) != 1 {
		t.Fatalf("expected one warning, got %q", warnings)
	}
}
