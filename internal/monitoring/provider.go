package monitoring

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/goliatone/go-featuregate/internal/adapters/noop"
	"github.com/goliatone/go-featuregate/internal/gate"
	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

var ErrDSNMissing = errors.New("monitoring: sentry dsn is missing")

const DefaultFlushTimeout = 2 * time.Second

const closedReason = "monitoring provider is closed"

// Option adjusts the sentry client options before the client is built.
type Option func(*sentry.ClientOptions)

// WithBeforeSend installs a hook that sees every event. Returning nil drops
// the event.
func WithBeforeSend(fn func(*sentry.Event) *sentry.Event) Option {
	return func(opts *sentry.ClientOptions) {
		if fn == nil {
			return
		}
		opts.BeforeSend = func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return fn(event)
		}
	}
}

// WithRelease tags every event with release.
func WithRelease(release string) Option {
	return func(opts *sentry.ClientOptions) {
		opts.Release = release
	}
}

// Provider resolves the error reporter once from the gate.
type Provider struct {
	gate    *gate.Gate
	logger  interfaces.Logger
	options []Option

	mu       sync.Mutex
	resolved bool
	closed   bool
	binding  gate.Binding[*SentryReporter]
}

func NewProvider(g *gate.Gate, logger interfaces.Logger, opts ...Option) *Provider {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Provider{
		gate:    g,
		logger:  logging.WithServiceContext(logger, string(runtimeconfig.FeatureMonitoring), string(runtimeconfig.ServiceSentry)),
		options: opts,
	}
}

// Binding resolves the reporter on first use. After Close it is Disabled.
func (p *Provider) Binding() gate.Binding[*SentryReporter] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return gate.Disabled[*SentryReporter](closedReason)
	}
	if !p.resolved {
		p.binding = gate.Bind(p.gate, runtimeconfig.FeatureMonitoring, p.build)
		p.resolved = true
		if !p.binding.IsEnabled() {
			p.logger.Debug("monitoring.provider.disabled", "reason", p.binding.Reason())
		}
	}
	return p.binding
}

// Reporter returns the live reporter, or a no-op reporter when monitoring
// is disabled.
func (p *Provider) Reporter() interfaces.ErrorReporter {
	if reporter, ok := p.Binding().Get(); ok {
		return reporter
	}
	return noop.Reporter()
}

func (p *Provider) Enabled() bool {
	return p.Binding().IsEnabled()
}

// Close flushes buffered events. Later calls get the no-op reporter.
func (p *Provider) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	reporter, ok := p.binding.Get()
	p.binding = gate.Disabled[*SentryReporter](closedReason)
	p.mu.Unlock()

	if ok && !reporter.Flush(DefaultFlushTimeout) {
		p.logger.Warn("monitoring.provider.flush_timeout")
	}
	return nil
}

func (p *Provider) build() (*SentryReporter, error) {
	svc, _ := p.gate.ServiceConfig(runtimeconfig.ServiceSentry)
	cfg, _ := svc.(*runtimeconfig.SentryConfig)
	if cfg == nil || strings.TrimSpace(cfg.DSN) == "" {
		p.logger.Error("monitoring.provider.dsn_missing", "env", runtimeconfig.EnvSentryDSN)
		return nil, ErrDSNMissing
	}

	environment := cfg.Environment
	if environment == "" {
		environment = p.gate.Environment()
	}
	opts := sentry.ClientOptions{
		Dsn:              strings.TrimSpace(cfg.DSN),
		Environment:      environment,
		TracesSampleRate: cfg.TracesSampleRate,
		Debug:            p.gate.Config().IsDevelopment(),
	}
	for _, opt := range p.options {
		if opt != nil {
			opt(&opts)
		}
	}

	reporter, err := newSentryReporter(opts, p.logger)
	if err != nil {
		p.logger.Error("monitoring.provider.client_failed", "error", err)
		return nil, err
	}
	p.logger.Info("monitoring.provider.ready", "environment", environment, "traces_sample_rate", cfg.TracesSampleRate)
	return reporter, nil
}
