package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

const (
	rootModule       = "featuregate"
	gateModule       = "featuregate.gate"
	databaseModule   = "featuregate.database"
	tasksModule      = "featuregate.tasks"
	monitoringModule = "featuregate.monitoring"
	authModule       = "featuregate.auth"
	paymentsModule   = "featuregate.payments"
)

const (
	fieldFeature = "feature"
	fieldService = "service"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// GateLogger returns the logger namespace reserved for the feature gate.
func GateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, gateModule)
}

// DatabaseLogger returns the logger namespace reserved for the database bindings.
func DatabaseLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, databaseModule)
}

// TasksLogger returns the logger namespace reserved for the tasks service.
func TasksLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, tasksModule)
}

// MonitoringLogger returns the logger namespace reserved for error reporting.
func MonitoringLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, monitoringModule)
}

// AuthLogger returns the logger namespace reserved for the auth binding.
func AuthLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, authModule)
}

// PaymentsLogger returns the logger namespace reserved for the payments binding.
func PaymentsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, paymentsModule)
}

// WithServiceContext enriches the logger with the feature/service pair a
// binding is resolving. Empty values are ignored.
func WithServiceContext(logger interfaces.Logger, feature, service string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(feature); trimmed != "" {
		fields[fieldFeature] = trimmed
	}
	if trimmed := strings.TrimSpace(service); trimmed != "" {
		fields[fieldService] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
