package gate

import "github.com/goliatone/go-featuregate/internal/runtimeconfig"

// Result is the outcome of a registry validation pass.
type Result struct {
	Valid  bool
	Errors []string
}

type requirement struct {
	feature runtimeconfig.Feature
	envKey  string
	present func(runtimeconfig.Services) bool
}

// requirements run in this order and the order is part of the output.
var requirements = []requirement{
	{
		feature: runtimeconfig.FeatureAuth,
		envKey:  runtimeconfig.EnvClerkPublishableKey,
		present: func(s runtimeconfig.Services) bool { return filled(s.Clerk.PublishableKey) },
	},
	{
		feature: runtimeconfig.FeatureConvex,
		envKey:  runtimeconfig.EnvConvexURL,
		present: func(s runtimeconfig.Services) bool { return filled(s.Convex.URL) },
	},
	{
		feature: runtimeconfig.FeaturePayments,
		envKey:  runtimeconfig.EnvRevenueCatAPIKey,
		present: func(s runtimeconfig.Services) bool { return filled(s.RevenueCat.APIKey) },
	},
	{
		feature: runtimeconfig.FeatureMonitoring,
		envKey:  runtimeconfig.EnvSentryDSN,
		present: func(s runtimeconfig.Services) bool { return filled(s.Sentry.DSN) },
	},
}

// Validate checks that every usable feature carries the parameter it needs.
// Features whose flag or service is off are not checked.
func (g *Gate) Validate() Result {
	result := Result{Valid: true}
	for _, req := range requirements {
		if !g.Usable(req.feature) {
			continue
		}
		if req.present(g.cfg.Services) {
			continue
		}
		result.Errors = append(result.Errors, MissingParameterMessage(req.envKey, req.feature))
	}
	result.Valid = len(result.Errors) == 0
	return result
}

// MissingParameterMessage formats the error reported for an absent parameter.
func MissingParameterMessage(envKey string, feature runtimeconfig.Feature) string {
	return envKey + " is required when " + string(feature) + " is enabled"
}

// filled only rejects the empty string. Whitespace counts as set; the client
// builders reject it later and the binding falls back to disabled.
func filled(value string) bool {
	return value != ""
}
