package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/internal/runtimeconfig"
)

// ErrInvalidProductionConfig is the source of the error returned by
// Initialize when a production registry fails validation.
var ErrInvalidProductionConfig = errors.New("featuregate: invalid configuration for production environment")

const (
	configInvalidCode    = "CONFIG_INVALID"
	productionInvalidMsg = "Invalid configuration for production environment"
	noneEnabled          = "None"
)

// State tracks the startup lifecycle. It moves from unvalidated to
// validated exactly once.
type State int

const (
	StateUnvalidated State = iota
	StateValidated
)

func (s State) String() string {
	if s == StateValidated {
		return "validated"
	}
	return "unvalidated"
}

// State reports whether Initialize has completed.
func (g *Gate) State() State {
	if g.validated.Load() {
		return StateValidated
	}
	return StateUnvalidated
}

// Initialize validates the registry once. Failures are logged as warnings;
// in production they are also returned as a CONFIG_INVALID validation error
// and the caller must not continue. Later calls return the first outcome.
func (g *Gate) Initialize(ctx context.Context) error {
	g.once.Do(func() {
		g.initErr = g.initialize(ctx)
		g.validated.Store(true)
	})
	return g.initErr
}

func (g *Gate) initialize(ctx context.Context) error {
	logger := g.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	logger = logging.WithFields(logger, map[string]any{"environment": g.cfg.Environment})

	for _, feature := range g.Mismatches() {
		service, _ := runtimeconfig.PairedService(feature)
		logging.WithServiceContext(logger, string(feature), string(service)).
			Warn("config.flags.mismatch",
				"feature_enabled", g.IsFeatureEnabled(feature),
				"service_enabled", g.IsServiceEnabled(service),
			)
	}

	result := g.Validate()
	if !result.Valid {
		logger.Warn("Configuration validation failed", "errors", result.Errors)
		for _, msg := range result.Errors {
			logger.Warn(msg)
		}
		if g.cfg.IsProduction() {
			logger.Error(productionInvalidMsg)
			source := fmt.Errorf("%w: %s", ErrInvalidProductionConfig, strings.Join(result.Errors, "; "))
			return goerrors.Wrap(source, goerrors.CategoryValidation, productionInvalidMsg).
				WithTextCode(configInvalidCode)
		}
	}

	if g.cfg.IsDevelopment() {
		logger.Info("Features: " + joinOrNone(g.EnabledFeatures()))
		logger.Info("Services: " + joinOrNone(g.EnabledServices()))
	}
	return nil
}

func joinOrNone[T ~string](items []T) string {
	if len(items) == 0 {
		return noneEnabled
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = string(item)
	}
	return strings.Join(parts, ", ")
}
