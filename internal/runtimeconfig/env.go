package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var ErrEnvValueInvalid = errors.New("featuregate config: environment variable has an invalid value")

// EnvPrefix is required on every public environment variable read by the
// registry.
const EnvPrefix = "EXPO_PUBLIC_"

const (
	EnvClerkPublishableKey       = "EXPO_PUBLIC_CLERK_PUBLISHABLE_KEY"
	EnvConvexURL                 = "EXPO_PUBLIC_CONVEX_URL"
	EnvConvexDeployment          = "EXPO_PUBLIC_CONVEX_DEPLOYMENT"
	EnvRevenueCatAPIKey          = "EXPO_PUBLIC_REVENUE_CAT_API_KEY"
	EnvRevenueCatEntitlementID   = "EXPO_PUBLIC_REVENUE_CAT_ENTITLEMENT_ID"
	EnvSentryDSN                 = "EXPO_PUBLIC_SENTRY_DSN"
	EnvSentryEnvironment         = "EXPO_PUBLIC_SENTRY_ENVIRONMENT"
	EnvSentryTracesSampleRate    = "EXPO_PUBLIC_SENTRY_TRACES_SAMPLE_RATE"
	EnvAppEnvironment            = "APP_ENV"
	EnvNodeEnvironment           = "NODE_ENV"
	envFeatureOverridePrefix     = "FEATURE_"
	envLoggingProvider           = "FEATUREGATE_LOG_PROVIDER"
	envLoggingLevel              = "FEATUREGATE_LOG_LEVEL"
	envLoggingFormat             = "FEATUREGATE_LOG_FORMAT"
	defaultSentryEnvironmentProd = EnvProduction
)

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// MapLookup adapts a map to LookupFunc, mostly for tests and .env files.
func MapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

// EnvKey adds EnvPrefix to key unless it is already present.
func EnvKey(key string) string {
	if strings.HasPrefix(key, EnvPrefix) {
		return key
	}
	return EnvPrefix + key
}

// Load builds the registry from DefaultConfig and the process environment.
func Load() (Config, error) {
	return FromEnv(DefaultConfig(), os.LookupEnv)
}

// FromEnv overlays base with values read through lookup. Variables that are
// not set leave the base value untouched. Feature overrides
// (EXPO_PUBLIC_FEATURE_<NAME>=true|false) toggle the feature and its paired
// service together and are applied before service parameters are read.
func FromEnv(base Config, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := base.Clone()
	cfg.Environment = environmentFrom(lookup, cfg.Environment)

	for _, feature := range AllFeatures {
		key := EnvKey(envFeatureOverridePrefix + strings.ToUpper(string(feature)))
		raw, ok := envValue(lookup, key)
		if !ok {
			continue
		}
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrEnvValueInvalid, key, raw)
		}
		cfg.Features.Set(feature, enabled)
		cfg.setServiceEnabled(feature, enabled)
	}

	fillServiceParams(&cfg, lookup, false)

	if raw, ok := envValue(lookup, EnvSentryTracesSampleRate); ok && cfg.Services.Sentry != nil {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrEnvValueInvalid, EnvSentryTracesSampleRate, raw)
		}
		cfg.Services.Sentry.TracesSampleRate = rate
	}

	if v, ok := envValue(lookup, envLoggingProvider); ok {
		cfg.Logging.Provider = v
	}
	if v, ok := envValue(lookup, envLoggingLevel); ok {
		cfg.Logging.Level = v
	}
	if v, ok := envValue(lookup, envLoggingFormat); ok {
		cfg.Logging.Format = v
	}

	return cfg, nil
}

// fillServiceParams copies connection parameters that are set in the
// environment into the service records. With onlyEnabled set, disabled
// services keep no parameters.
func fillServiceParams(cfg *Config, lookup LookupFunc, onlyEnabled bool) {
	want := func(svc ServiceConfig) bool {
		return !onlyEnabled || svc.IsEnabled()
	}
	set := func(dst *string, key string) {
		if v, ok := envValue(lookup, key); ok {
			*dst = v
		}
	}

	if c := cfg.Services.Clerk; c != nil && want(c) {
		set(&c.PublishableKey, EnvClerkPublishableKey)
	}
	if c := cfg.Services.Convex; c != nil && want(c) {
		set(&c.URL, EnvConvexURL)
		set(&c.Deployment, EnvConvexDeployment)
	}
	if c := cfg.Services.RevenueCat; c != nil && want(c) {
		set(&c.APIKey, EnvRevenueCatAPIKey)
		set(&c.EntitlementID, EnvRevenueCatEntitlementID)
	}
	if c := cfg.Services.Sentry; c != nil && want(c) {
		set(&c.DSN, EnvSentryDSN)
		set(&c.Environment, EnvSentryEnvironment)
		if c.Environment == "" {
			c.Environment = EnvDevelopment
		}
	}
}

func (cfg *Config) setServiceEnabled(feature Feature, enabled bool) {
	service, _ := PairedService(feature)
	switch service {
	case ServiceClerk:
		if cfg.Services.Clerk == nil {
			cfg.Services.Clerk = &ClerkConfig{}
		}
		cfg.Services.Clerk.Enabled = enabled
	case ServiceConvex:
		if cfg.Services.Convex == nil {
			cfg.Services.Convex = &ConvexConfig{}
		}
		cfg.Services.Convex.Enabled = enabled
	case ServiceRevenueCat:
		if cfg.Services.RevenueCat == nil {
			cfg.Services.RevenueCat = &RevenueCatConfig{}
		}
		cfg.Services.RevenueCat.Enabled = enabled
	case ServiceSentry:
		if cfg.Services.Sentry == nil {
			cfg.Services.Sentry = &SentryConfig{TracesSampleRate: defaultTracesSampleRate, Environment: EnvDevelopment}
		}
		cfg.Services.Sentry.Enabled = enabled
	}
}

// environmentFrom resolves the runtime discriminator: APP_ENV wins over
// NODE_ENV, and fallback is kept when neither is set.
func environmentFrom(lookup LookupFunc, fallback string) string {
	for _, key := range []string{EnvAppEnvironment, EnvNodeEnvironment} {
		if v, ok := lookup(key); ok {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				return v
			}
		}
	}
	return fallback
}

// envValue returns a trimmed, non-empty value for key.
func envValue(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
