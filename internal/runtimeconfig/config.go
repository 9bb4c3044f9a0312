package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var ErrTracesSampleRateInvalid = errors.New("featuregate config: sentry traces sample rate must be between 0 and 1")
var ErrLoggingProviderUnknown = errors.New("featuregate config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("featuregate config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("featuregate config: logging format is invalid")

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

const defaultTracesSampleRate = 0.2

// Feature names a capability exposed to the application.
type Feature string

const (
	FeatureAuth       Feature = "auth"
	FeatureConvex     Feature = "convex"
	FeaturePayments   Feature = "payments"
	FeatureMonitoring Feature = "monitoring"
)

// AllFeatures lists every feature in declaration order.
var AllFeatures = []Feature{FeatureAuth, FeatureConvex, FeaturePayments, FeatureMonitoring}

// Service names the third-party backend implementing a feature.
type Service string

const (
	ServiceClerk      Service = "clerk"
	ServiceConvex     Service = "convex"
	ServiceRevenueCat Service = "revenueCat"
	ServiceSentry     Service = "sentry"
)

// AllServices lists every service in declaration order.
var AllServices = []Service{ServiceClerk, ServiceConvex, ServiceRevenueCat, ServiceSentry}

// Section names a UI area whose visibility is configured.
type Section string

const (
	SectionAuth      Section = "auth"
	SectionDashboard Section = "dashboard"
	SectionPaywall   Section = "paywall"
	SectionSettings  Section = "settings"
)

// Config is the registry: feature flags, service bindings and UI
// visibility. It is built once at startup and treated as read only.
type Config struct {
	Environment string // any value; production and development are special
	Features    Features
	Services    Services
	UI          UIConfig
	Logging     LoggingConfig
}

// Features toggles the optional integrations.
type Features struct {
	Auth       bool
	Convex     bool
	Payments   bool
	Monitoring bool
}

// Services carries per-service connection parameters. A nil entry means the
// service is not configured at all.
type Services struct {
	Clerk      *ClerkConfig
	Convex     *ConvexConfig
	RevenueCat *RevenueCatConfig
	Sentry     *SentryConfig
}

// ServiceConfig is implemented by every service record.
type ServiceConfig interface {
	IsEnabled() bool
}

type ClerkConfig struct {
	Enabled        bool
	PublishableKey string
}

type ConvexConfig struct {
	Enabled    bool
	URL        string
	Deployment string
}

type RevenueCatConfig struct {
	Enabled       bool
	APIKey        string
	EntitlementID string
}

type SentryConfig struct {
	Enabled          bool
	DSN              string
	TracesSampleRate float64
	Environment      string
}

func (c *ClerkConfig) IsEnabled() bool      { return c != nil && c.Enabled }
func (c *ConvexConfig) IsEnabled() bool     { return c != nil && c.Enabled }
func (c *RevenueCatConfig) IsEnabled() bool { return c != nil && c.Enabled }
func (c *SentryConfig) IsEnabled() bool     { return c != nil && c.Enabled }

// UIConfig controls which sections are rendered.
type UIConfig struct {
	ShowAuth      bool
	ShowDashboard bool
	ShowPaywall   bool
	ShowSettings  bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the literal defaults: every integration off, every
// service record present without parameters, dashboard and settings visible.
func DefaultConfig() Config {
	return Config{
		Features: Features{},
		Services: Services{
			Clerk:      &ClerkConfig{},
			Convex:     &ConvexConfig{},
			RevenueCat: &RevenueCatConfig{},
			Sentry: &SentryConfig{
				TracesSampleRate: defaultTracesSampleRate,
				Environment:      EnvDevelopment,
			},
		},
		UI: UIConfig{
			ShowDashboard: true,
			ShowSettings:  true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Feature reports the flag for name. Unknown names report false.
func (f Features) Feature(name Feature) bool {
	switch name {
	case FeatureAuth:
		return f.Auth
	case FeatureConvex:
		return f.Convex
	case FeaturePayments:
		return f.Payments
	case FeatureMonitoring:
		return f.Monitoring
	default:
		return false
	}
}

// Set toggles the named feature. It returns false for unknown names.
func (f *Features) Set(name Feature, enabled bool) bool {
	switch name {
	case FeatureAuth:
		f.Auth = enabled
	case FeatureConvex:
		f.Convex = enabled
	case FeaturePayments:
		f.Payments = enabled
	case FeatureMonitoring:
		f.Monitoring = enabled
	default:
		return false
	}
	return true
}

// Lookup returns the record configured for name. The second result is false
// when the service is unknown or absent.
func (s Services) Lookup(name Service) (ServiceConfig, bool) {
	switch name {
	case ServiceClerk:
		if s.Clerk != nil {
			return s.Clerk, true
		}
	case ServiceConvex:
		if s.Convex != nil {
			return s.Convex, true
		}
	case ServiceRevenueCat:
		if s.RevenueCat != nil {
			return s.RevenueCat, true
		}
	case ServiceSentry:
		if s.Sentry != nil {
			return s.Sentry, true
		}
	}
	return nil, false
}

// Section reports the visibility flag for name.
func (u UIConfig) Section(name Section) bool {
	switch name {
	case SectionAuth:
		return u.ShowAuth
	case SectionDashboard:
		return u.ShowDashboard
	case SectionPaywall:
		return u.ShowPaywall
	case SectionSettings:
		return u.ShowSettings
	default:
		return false
	}
}

// PairedService returns the service backing feature.
func PairedService(feature Feature) (Service, bool) {
	switch feature {
	case FeatureAuth:
		return ServiceClerk, true
	case FeatureConvex:
		return ServiceConvex, true
	case FeaturePayments:
		return ServiceRevenueCat, true
	case FeatureMonitoring:
		return ServiceSentry, true
	default:
		return "", false
	}
}

func (cfg Config) IsDevelopment() bool { return cfg.Environment == EnvDevelopment }
func (cfg Config) IsProduction() bool  { return cfg.Environment == EnvProduction }

// Clone returns a deep copy so the caller can hold it without sharing
// service records.
func (cfg Config) Clone() Config {
	out := cfg
	if cfg.Services.Clerk != nil {
		c := *cfg.Services.Clerk
		out.Services.Clerk = &c
	}
	if cfg.Services.Convex != nil {
		c := *cfg.Services.Convex
		out.Services.Convex = &c
	}
	if cfg.Services.RevenueCat != nil {
		c := *cfg.Services.RevenueCat
		out.Services.RevenueCat = &c
	}
	if cfg.Services.Sentry != nil {
		c := *cfg.Services.Sentry
		out.Services.Sentry = &c
	}
	if cfg.Logging.Focus != nil {
		out.Logging.Focus = append([]string(nil), cfg.Logging.Focus...)
	}
	return out
}

// Validate performs structural checks. Missing parameters for enabled
// features are not structural errors; the gate reports those. Environment is
// free form: only production and development change startup behaviour.
func (cfg Config) Validate() error {
	if s := cfg.Services.Sentry; s != nil {
		err := validation.ValidateStruct(s,
			validation.Field(&s.TracesSampleRate, validation.Min(0.0), validation.Max(1.0)),
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTracesSampleRateInvalid, s.TracesSampleRate)
		}
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
