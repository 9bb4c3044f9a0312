package di

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-featuregate/internal/auth"
	"github.com/goliatone/go-featuregate/internal/commands"
	"github.com/goliatone/go-featuregate/internal/database"
	"github.com/goliatone/go-featuregate/internal/gate"
	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/internal/logging/console"
	"github.com/goliatone/go-featuregate/internal/logging/gologger"
	"github.com/goliatone/go-featuregate/internal/monitoring"
	"github.com/goliatone/go-featuregate/internal/payments"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
	"github.com/goliatone/go-featuregate/internal/tasks"
	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

// Container wires the gate and every feature binding that hangs off it.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	opener         database.Opener
	monitoringOpts []monitoring.Option
	taskOpts       []tasks.ServiceOption

	gate       *gate.Gate
	database   *database.Provider
	tasks      tasks.Service
	auth       *auth.Provider
	payments   *payments.Provider
	monitoring *monitoring.Provider
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithDatabaseOpener overrides how the database client is opened.
func WithDatabaseOpener(opener database.Opener) Option {
	return func(c *Container) {
		c.opener = opener
	}
}

// WithMonitoringOptions forwards client options to the Sentry binding.
func WithMonitoringOptions(opts ...monitoring.Option) Option {
	return func(c *Container) {
		c.monitoringOpts = append(c.monitoringOpts, opts...)
	}
}

// WithTaskOptions forwards options to the tasks service.
func WithTaskOptions(opts ...tasks.ServiceOption) Option {
	return func(c *Container) {
		c.taskOpts = append(c.taskOpts, opts...)
	}
}

// NewContainer validates cfg and builds the gate plus its bindings. Bindings
// resolve lazily, so nothing connects to a backend here.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg.Clone()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLogger(); err != nil {
		return nil, err
	}

	c.gate = gate.New(c.Config, logging.GateLogger(c.loggerProvider))
	c.database = database.NewProvider(c.gate, logging.DatabaseLogger(c.loggerProvider), c.opener)
	c.auth = auth.NewProvider(c.gate, logging.AuthLogger(c.loggerProvider))
	c.payments = payments.NewProvider(c.gate, logging.PaymentsLogger(c.loggerProvider))
	c.monitoring = monitoring.NewProvider(c.gate, logging.MonitoringLogger(c.loggerProvider), c.monitoringOpts...)

	taskOpts := append([]tasks.ServiceOption{
		tasks.WithCommandLogger(commands.CommandLogger(c.loggerProvider, "tasks")),
	}, c.taskOpts...)
	svc, err := tasks.NewService(c.database, logging.TasksLogger(c.loggerProvider), taskOpts...)
	if err != nil {
		return nil, err
	}
	c.tasks = svc

	return c, nil
}

func (c *Container) configureLogger() error {
	if c.loggerProvider != nil {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(c.Config.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

// LoggerProvider returns the provider every module logger is derived from.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Gate returns the feature gate.
func (c *Container) Gate() *gate.Gate {
	return c.gate
}

// Database returns the database binding.
func (c *Container) Database() *database.Provider {
	return c.database
}

// TaskService returns the demo task service.
func (c *Container) TaskService() tasks.Service {
	return c.tasks
}

// Auth returns the authentication binding.
func (c *Container) Auth() *auth.Provider {
	return c.auth
}

// Payments returns the subscription billing binding.
func (c *Container) Payments() *payments.Provider {
	return c.payments
}

// Monitoring returns the error reporting binding.
func (c *Container) Monitoring() *monitoring.Provider {
	return c.monitoring
}

// Initialize runs the gate startup check and, when the database binding is
// enabled, makes sure the task table exists.
func (c *Container) Initialize(ctx context.Context) error {
	if err := c.gate.Initialize(ctx); err != nil {
		return err
	}
	return tasks.EnsureSchema(ctx, c.database)
}

// Close flushes pending reports and releases the database client.
func (c *Container) Close() error {
	return errors.Join(c.monitoring.Close(), c.database.Close())
}
