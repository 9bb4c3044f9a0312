package database

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-featuregate/internal/gate"
	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

// Handle is the live database client handed to enabled call sites.
type Handle struct {
	DB         *bun.DB
	Dialect    string
	Deployment string
}

// DefaultConnectTimeout bounds opening and pinging the client.
const DefaultConnectTimeout = 10 * time.Second

const closedReason = "database provider is closed"

// Provider owns the database client. The client is built at most once and
// only when the convex feature is usable and a URL is configured.
type Provider struct {
	gate   *gate.Gate
	logger interfaces.Logger
	opener Opener

	mu       sync.Mutex
	resolved bool
	closed   bool
	binding  gate.Binding[*Handle]
}

// NewProvider wires a provider. A nil opener uses Open.
func NewProvider(g *gate.Gate, logger interfaces.Logger, opener Opener) *Provider {
	if logger == nil {
		logger = logging.NoOp()
	}
	if opener == nil {
		opener = Open
	}
	return &Provider{
		gate:   g,
		logger: logging.WithServiceContext(logger, string(runtimeconfig.FeatureConvex), string(runtimeconfig.ServiceConvex)),
		opener: opener,
	}
}

// Resolve builds the binding on first use and caches it. The connection
// keeps ctx values but not its cancellation, so a cancelled request cannot
// disable the database for later callers. After Close the binding is
// Disabled.
func (p *Provider) Resolve(ctx context.Context) gate.Binding[*Handle] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return gate.Disabled[*Handle](closedReason)
	}
	if !p.resolved {
		if ctx == nil {
			ctx = context.Background()
		}
		connectCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultConnectTimeout)
		p.binding = p.resolve(connectCtx)
		cancel()
		p.resolved = true
	}
	return p.binding
}

// Binding returns the resolved binding, resolving it on first use.
func (p *Provider) Binding() gate.Binding[*Handle] {
	return p.Resolve(context.Background())
}

func (p *Provider) resolve(ctx context.Context) gate.Binding[*Handle] {
	if !p.gate.Usable(runtimeconfig.FeatureConvex) {
		reason := gate.DisabledReason(p.gate, runtimeconfig.FeatureConvex)
		p.logger.Debug("database.provider.disabled", "reason", reason)
		return gate.Disabled[*Handle](reason)
	}

	svc, _ := p.gate.ServiceConfig(runtimeconfig.ServiceConvex)
	cfg, _ := svc.(*runtimeconfig.ConvexConfig)
	if cfg == nil || strings.TrimSpace(cfg.URL) == "" {
		p.logger.Error("database url is not configured", "env", runtimeconfig.EnvConvexURL)
		return gate.Disabled[*Handle]("database url is not configured")
	}

	return gate.Bind(p.gate, runtimeconfig.FeatureConvex, func() (*Handle, error) {
		db, err := p.opener(ctx, cfg.URL)
		if err != nil {
			p.logger.Error("database.provider.open_failed", "error", err)
			return nil, err
		}
		dialect, _ := DialectOf(cfg.URL)
		p.logger.Info("database.provider.connected", "dialect", dialect, "deployment", cfg.Deployment)
		return &Handle{DB: db, Dialect: dialect, Deployment: cfg.Deployment}, nil
	})
}

// Close releases the client when one was built. Later resolves report a
// Disabled binding and never open a new client.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	handle, ok := p.binding.Get()
	p.binding = gate.Disabled[*Handle](closedReason)
	if !ok || handle == nil || handle.DB == nil {
		return nil
	}
	return handle.DB.Close()
}

// Enabled reports whether database calls reach a live backend.
func (p *Provider) Enabled() bool {
	return p.Binding().IsEnabled()
}
