package payments

import (
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-featuregate/internal/gate"
	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

var ErrAPIKeyMissing = errors.New("payments: api key is missing")

const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
	PlatformAmazon  = "amazon"
	PlatformWeb     = "web"
	PlatformUnknown = "unknown"
)

var keyPlatforms = []struct {
	prefix   string
	platform string
}{
	{"appl_", PlatformIOS},
	{"goog_", PlatformAndroid},
	{"amzn_", PlatformAmazon},
	{"strp_", PlatformWeb},
	{"rcb_", PlatformWeb},
}

// PlatformForKey infers the store platform from a RevenueCat public key.
func PlatformForKey(apiKey string) string {
	apiKey = strings.TrimSpace(apiKey)
	for _, kp := range keyPlatforms {
		if strings.HasPrefix(apiKey, kp.prefix) {
			return kp.platform
		}
	}
	return PlatformUnknown
}

// Provider resolves the payments binding once from the gate.
type Provider struct {
	gate   *gate.Gate
	logger interfaces.Logger

	once    sync.Once
	binding gate.Binding[interfaces.PaymentsSettings]
}

func NewProvider(g *gate.Gate, logger interfaces.Logger) *Provider {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Provider{
		gate:   g,
		logger: logging.WithServiceContext(logger, string(runtimeconfig.FeaturePayments), string(runtimeconfig.ServiceRevenueCat)),
	}
}

func (p *Provider) Binding() gate.Binding[interfaces.PaymentsSettings] {
	p.once.Do(func() {
		p.binding = gate.Bind(p.gate, runtimeconfig.FeaturePayments, p.build)
	})
	return p.binding
}

func (p *Provider) build() (interfaces.PaymentsSettings, error) {
	svc, _ := p.gate.ServiceConfig(runtimeconfig.ServiceRevenueCat)
	cfg, _ := svc.(*runtimeconfig.RevenueCatConfig)
	if cfg == nil || strings.TrimSpace(cfg.APIKey) == "" {
		p.logger.Error("payments.provider.api_key_missing", "env", runtimeconfig.EnvRevenueCatAPIKey)
		return interfaces.PaymentsSettings{}, ErrAPIKeyMissing
	}

	settings := interfaces.PaymentsSettings{
		APIKey:        strings.TrimSpace(cfg.APIKey),
		EntitlementID: strings.TrimSpace(cfg.EntitlementID),
		Platform:      PlatformForKey(cfg.APIKey),
	}
	if settings.Platform == PlatformUnknown {
		p.logger.Warn("payments.provider.platform_unknown")
	}
	if settings.EntitlementID == "" {
		p.logger.Warn("payments.provider.entitlement_missing", "env", runtimeconfig.EnvRevenueCatEntitlementID)
	}
	return settings, nil
}

func (p *Provider) Enabled() bool {
	return p.Binding().IsEnabled()
}

// PaywallVisible reports whether the subscription paywall should be shown:
// payments must be live and the paywall section switched on.
func (p *Provider) PaywallVisible() bool {
	return p.Enabled() && p.gate.IsSectionVisible(runtimeconfig.SectionPaywall)
}

// HasEntitlement reports whether active grants the configured entitlement.
// Without a live binding nothing is entitled.
func (p *Provider) HasEntitlement(active []string) bool {
	settings, ok := p.Binding().Get()
	if !ok || settings.EntitlementID == "" {
		return false
	}
	for _, id := range active {
		if id == settings.EntitlementID {
			return true
		}
	}
	return false
}
