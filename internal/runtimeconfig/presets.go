package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrPresetUnknown = errors.New("featuregate config: preset is unknown")

const (
	PresetFullStack      = "full-stack"
	PresetFrontendOnly   = "frontend-only"
	PresetAuthOnly       = "auth-only"
	PresetConvexOnly     = "convex-only"
	PresetPaymentsOnly   = "payments-only"
	PresetMonitoringOnly = "monitoring-only"
	PresetDevelopment    = "development"
)

type preset struct {
	description string
	features    Features
	ui          UIConfig
	sentryEnv   string
}

var presets = map[string]preset{
	PresetFullStack: {
		description: "auth, database, payments and monitoring",
		features:    Features{Auth: true, Convex: true, Payments: true, Monitoring: true},
		ui:          UIConfig{ShowAuth: true, ShowDashboard: true, ShowPaywall: true, ShowSettings: true},
		sentryEnv:   defaultSentryEnvironmentProd,
	},
	PresetFrontendOnly: {
		description: "static app without backend integrations",
		ui:          UIConfig{ShowDashboard: true, ShowSettings: true},
	},
	PresetAuthOnly: {
		description: "user authentication without database or payments",
		features:    Features{Auth: true},
		ui:          UIConfig{ShowAuth: true, ShowDashboard: true, ShowSettings: true},
	},
	PresetConvexOnly: {
		description: "database without authentication or payments",
		features:    Features{Convex: true},
		ui:          UIConfig{ShowDashboard: true, ShowSettings: true},
	},
	PresetPaymentsOnly: {
		description: "subscription billing without authentication",
		features:    Features{Payments: true},
		ui:          UIConfig{ShowDashboard: true, ShowPaywall: true, ShowSettings: true},
	},
	PresetMonitoringOnly: {
		description: "error reporting without other services",
		features:    Features{Monitoring: true},
		ui:          UIConfig{ShowDashboard: true, ShowSettings: true},
		sentryEnv:   EnvDevelopment,
	},
	PresetDevelopment: {
		description: "local development with the database only",
		features:    Features{Convex: true},
		ui:          UIConfig{ShowDashboard: true, ShowSettings: true},
	},
}

// PresetNames returns the known preset names in a stable order.
func PresetNames() []string {
	return []string{
		PresetFullStack,
		PresetFrontendOnly,
		PresetAuthOnly,
		PresetConvexOnly,
		PresetPaymentsOnly,
		PresetMonitoringOnly,
		PresetDevelopment,
	}
}

// PresetDescription returns the one-line summary for name.
func PresetDescription(name string) string {
	return presets[normalizePreset(name)].description
}

// Preset builds a registry from a named profile. Every service record is
// present; only services whose feature the preset enables receive
// parameters from lookup.
func Preset(name string, lookup LookupFunc) (Config, error) {
	p, ok := presets[normalizePreset(name)]
	if !ok {
		return Config{}, fmt.Errorf("%w: %s", ErrPresetUnknown, name)
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := DefaultConfig()
	cfg.Environment = environmentFrom(lookup, "")
	cfg.Features = p.features
	cfg.UI = p.ui
	for _, feature := range AllFeatures {
		cfg.setServiceEnabled(feature, p.features.Feature(feature))
	}

	if p.sentryEnv != "" {
		cfg.Services.Sentry.Environment = p.sentryEnv
	}
	fillServiceParams(&cfg, lookup, true)
	return cfg, nil
}

func normalizePreset(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, "_", "-")
}
