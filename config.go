package featuregate

import "github.com/goliatone/go-featuregate/internal/runtimeconfig"

var (
	ErrTracesSampleRateInvalid = runtimeconfig.ErrTracesSampleRateInvalid
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrEnvValueInvalid         = runtimeconfig.ErrEnvValueInvalid
	ErrPresetUnknown           = runtimeconfig.ErrPresetUnknown
	ErrFileFormatUnsupported   = runtimeconfig.ErrFileFormatUnsupported
)

type (
	Config           = runtimeconfig.Config
	Features         = runtimeconfig.Features
	Services         = runtimeconfig.Services
	ServiceConfig    = runtimeconfig.ServiceConfig
	ClerkConfig      = runtimeconfig.ClerkConfig
	ConvexConfig     = runtimeconfig.ConvexConfig
	RevenueCatConfig = runtimeconfig.RevenueCatConfig
	SentryConfig     = runtimeconfig.SentryConfig
	UIConfig         = runtimeconfig.UIConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	Feature          = runtimeconfig.Feature
	Service          = runtimeconfig.Service
	Section          = runtimeconfig.Section
	LookupFunc       = runtimeconfig.LookupFunc
)

const (
	FeatureAuth       = runtimeconfig.FeatureAuth
	FeatureConvex     = runtimeconfig.FeatureConvex
	FeaturePayments   = runtimeconfig.FeaturePayments
	FeatureMonitoring = runtimeconfig.FeatureMonitoring

	ServiceClerk      = runtimeconfig.ServiceClerk
	ServiceConvex     = runtimeconfig.ServiceConvex
	ServiceRevenueCat = runtimeconfig.ServiceRevenueCat
	ServiceSentry     = runtimeconfig.ServiceSentry

	SectionAuth      = runtimeconfig.SectionAuth
	SectionDashboard = runtimeconfig.SectionDashboard
	SectionPaywall   = runtimeconfig.SectionPaywall
	SectionSettings  = runtimeconfig.SectionSettings

	EnvDevelopment = runtimeconfig.EnvDevelopment
	EnvProduction  = runtimeconfig.EnvProduction
	EnvTest        = runtimeconfig.EnvTest
)

// DefaultConfig returns the registry defaults with every integration off.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig builds the registry from the process environment.
func LoadConfig() (Config, error) {
	return runtimeconfig.Load()
}

// ConfigFromEnv overlays base with values read through lookup.
func ConfigFromEnv(base Config, lookup LookupFunc) (Config, error) {
	return runtimeconfig.FromEnv(base, lookup)
}

// Preset builds the registry for a named profile.
func Preset(name string, lookup LookupFunc) (Config, error) {
	return runtimeconfig.Preset(name, lookup)
}

// PresetNames lists the known presets.
func PresetNames() []string {
	return runtimeconfig.PresetNames()
}

// LoadConfigFile overlays base with a YAML, JSON or TOML registry file.
func LoadConfigFile(path string, base Config) (Config, error) {
	return runtimeconfig.LoadFile(path, base)
}

// PresetDescription returns the one-line summary for a preset.
func PresetDescription(name string) string {
	return runtimeconfig.PresetDescription(name)
}
