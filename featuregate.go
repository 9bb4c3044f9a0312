package featuregate

import (
	"context"
	"time"

	"github.com/goliatone/go-featuregate/internal/auth"
	"github.com/goliatone/go-featuregate/internal/database"
	"github.com/goliatone/go-featuregate/internal/di"
	"github.com/goliatone/go-featuregate/internal/gate"
	"github.com/goliatone/go-featuregate/internal/monitoring"
	"github.com/goliatone/go-featuregate/internal/payments"
	"github.com/goliatone/go-featuregate/internal/report"
	"github.com/goliatone/go-featuregate/internal/tasks"
	"github.com/google/uuid"
)

// ErrInvalidProductionConfig is returned by Initialize when the registry
// fails validation in production.
var ErrInvalidProductionConfig = gate.ErrInvalidProductionConfig

// Gate exports the feature gate.
type Gate = gate.Gate

// ValidationResult exports the outcome of Gate.Validate.
type ValidationResult = gate.Result

// TaskService exports the demo task service contract.
type TaskService = tasks.Service

// Report exports the status report.
type Report = report.Report

// Module represents the top level feature gate runtime façade.
type Module struct {
	container *di.Container
	runID     string
	now       func() time.Time
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{
		container: container,
		runID:     uuid.NewString(),
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// RunID identifies this process in reports.
func (m *Module) RunID() string {
	return m.runID
}

// Gate returns the feature gate.
func (m *Module) Gate() *Gate {
	return m.container.Gate()
}

// Initialize validates the registry once. In production an invalid registry
// returns ErrInvalidProductionConfig and startup must stop.
func (m *Module) Initialize(ctx context.Context) error {
	return m.container.Initialize(ctx)
}

// Database returns the gated database binding.
func (m *Module) Database() *database.Provider {
	return m.container.Database()
}

// Tasks returns the demo task service.
func (m *Module) Tasks() TaskService {
	return m.container.TaskService()
}

// Auth returns the authentication binding.
func (m *Module) Auth() *auth.Provider {
	return m.container.Auth()
}

// Payments returns the subscription billing binding.
func (m *Module) Payments() *payments.Provider {
	return m.container.Payments()
}

// Monitoring returns the error reporting binding.
func (m *Module) Monitoring() *monitoring.Provider {
	return m.container.Monitoring()
}

// Report summarises the registry, validation outcome and current tasks.
func (m *Module) Report(ctx context.Context) (Report, error) {
	list, err := m.Tasks().List(ctx)
	if err != nil {
		return Report{}, err
	}
	return report.Build(m.Gate(),
		report.WithRunID(m.runID),
		report.WithGeneratedAt(m.now()),
		report.WithTasks(list),
	), nil
}

// Close flushes pending error reports and releases the database client.
func (m *Module) Close() error {
	return m.container.Close()
}
