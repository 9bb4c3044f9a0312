package gate

import (
	"sync"
	"sync/atomic"

	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

// Gate answers feature and service queries over an immutable registry and
// runs the one-shot startup validation. All query methods are safe for
// concurrent use.
type Gate struct {
	cfg    runtimeconfig.Config
	logger interfaces.Logger

	once      sync.Once
	validated atomic.Bool
	initErr   error
}

// New captures a private copy of cfg. A nil logger discards output.
func New(cfg runtimeconfig.Config, logger interfaces.Logger) *Gate {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Gate{
		cfg:    cfg.Clone(),
		logger: logger,
	}
}

// Config returns a copy of the registry held by the gate.
func (g *Gate) Config() runtimeconfig.Config {
	return g.cfg.Clone()
}

// Environment reports the runtime discriminator.
func (g *Gate) Environment() string {
	return g.cfg.Environment
}

// IsFeatureEnabled reports features[name]. Unknown names report false.
func (g *Gate) IsFeatureEnabled(name runtimeconfig.Feature) bool {
	return g.cfg.Features.Feature(name)
}

// IsServiceEnabled reports services[name].enabled. Absent and unknown
// services report false.
func (g *Gate) IsServiceEnabled(name runtimeconfig.Service) bool {
	svc, ok := g.cfg.Services.Lookup(name)
	return ok && svc.IsEnabled()
}

// ServiceConfig returns the parameter record for name without validating it.
// The returned record is a copy.
func (g *Gate) ServiceConfig(name runtimeconfig.Service) (runtimeconfig.ServiceConfig, bool) {
	return g.cfg.Clone().Services.Lookup(name)
}

// Usable reports whether feature is switched on and its paired service is
// enabled. This is the single check call sites should rely on.
func (g *Gate) Usable(feature runtimeconfig.Feature) bool {
	service, ok := runtimeconfig.PairedService(feature)
	if !ok {
		return false
	}
	return g.IsFeatureEnabled(feature) && g.IsServiceEnabled(service)
}

// IsSectionVisible reports the ui visibility flag for section.
func (g *Gate) IsSectionVisible(section runtimeconfig.Section) bool {
	return g.cfg.UI.Section(section)
}

// EnabledFeatures lists the switched-on features in declaration order.
func (g *Gate) EnabledFeatures() []runtimeconfig.Feature {
	var out []runtimeconfig.Feature
	for _, feature := range runtimeconfig.AllFeatures {
		if g.IsFeatureEnabled(feature) {
			out = append(out, feature)
		}
	}
	return out
}

// EnabledServices lists the enabled services in declaration order.
func (g *Gate) EnabledServices() []runtimeconfig.Service {
	var out []runtimeconfig.Service
	for _, service := range runtimeconfig.AllServices {
		if g.IsServiceEnabled(service) {
			out = append(out, service)
		}
	}
	return out
}

// Mismatches lists features whose flag disagrees with the paired service's
// enabled flag.
func (g *Gate) Mismatches() []runtimeconfig.Feature {
	var out []runtimeconfig.Feature
	for _, feature := range runtimeconfig.AllFeatures {
		service, _ := runtimeconfig.PairedService(feature)
		if g.IsFeatureEnabled(feature) != g.IsServiceEnabled(service) {
			out = append(out, feature)
		}
	}
	return out
}
