package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-featuregate/internal/gate"
	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

var ErrPublishableKeyInvalid = errors.New("auth: publishable key is invalid")

const (
	InstanceDevelopment = "development"
	InstanceProduction  = "production"

	testKeyPrefix = "pk_test_"
	liveKeyPrefix = "pk_live_"
)

// ParsePublishableKey decodes the frontend API host and instance type from
// a Clerk publishable key (pk_test_ or pk_live_ followed by the base64
// encoded host and a trailing "$").
func ParsePublishableKey(key string) (interfaces.AuthSettings, error) {
	key = strings.TrimSpace(key)

	var instance, encoded string
	switch {
	case strings.HasPrefix(key, testKeyPrefix):
		instance, encoded = InstanceDevelopment, strings.TrimPrefix(key, testKeyPrefix)
	case strings.HasPrefix(key, liveKeyPrefix):
		instance, encoded = InstanceProduction, strings.TrimPrefix(key, liveKeyPrefix)
	default:
		return interfaces.AuthSettings{}, fmt.Errorf("%w: unknown prefix", ErrPublishableKeyInvalid)
	}

	decoded, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
	if err != nil {
		return interfaces.AuthSettings{}, fmt.Errorf("%w: %v", ErrPublishableKeyInvalid, err)
	}
	host, ok := strings.CutSuffix(string(decoded), "$")
	if !ok || host == "" || strings.ContainsAny(host, " /$") {
		return interfaces.AuthSettings{}, fmt.Errorf("%w: malformed frontend api", ErrPublishableKeyInvalid)
	}

	return interfaces.AuthSettings{
		PublishableKey: key,
		FrontendAPI:    host,
		Instance:       instance,
	}, nil
}

// Provider resolves the auth binding once from the gate.
type Provider struct {
	gate   *gate.Gate
	logger interfaces.Logger

	once    sync.Once
	binding gate.Binding[interfaces.AuthSettings]
}

func NewProvider(g *gate.Gate, logger interfaces.Logger) *Provider {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Provider{
		gate:   g,
		logger: logging.WithServiceContext(logger, string(runtimeconfig.FeatureAuth), string(runtimeconfig.ServiceClerk)),
	}
}

// Binding is Enabled with the decoded settings when auth is usable and the
// key parses.
func (p *Provider) Binding() gate.Binding[interfaces.AuthSettings] {
	p.once.Do(func() {
		p.binding = gate.Bind(p.gate, runtimeconfig.FeatureAuth, p.build)
		if !p.binding.IsEnabled() {
			p.logger.Debug("auth.provider.disabled", "reason", p.binding.Reason())
		}
	})
	return p.binding
}

func (p *Provider) build() (interfaces.AuthSettings, error) {
	svc, _ := p.gate.ServiceConfig(runtimeconfig.ServiceClerk)
	cfg, _ := svc.(*runtimeconfig.ClerkConfig)
	if cfg == nil {
		return interfaces.AuthSettings{}, ErrPublishableKeyInvalid
	}
	settings, err := ParsePublishableKey(cfg.PublishableKey)
	if err != nil {
		p.logger.Error("auth.provider.key_invalid", "error", err)
		return interfaces.AuthSettings{}, err
	}
	if settings.Instance == InstanceDevelopment && p.gate.Environment() == runtimeconfig.EnvProduction {
		p.logger.Warn("auth.provider.development_key_in_production", "frontend_api", settings.FrontendAPI)
	}
	return settings, nil
}

func (p *Provider) Enabled() bool {
	return p.Binding().IsEnabled()
}

// SectionVisible reports whether the auth screens should be shown.
func (p *Provider) SectionVisible() bool {
	return p.Enabled() && p.gate.IsSectionVisible(runtimeconfig.SectionAuth)
}
