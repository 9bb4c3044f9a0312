package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

type testMessage struct{}

func (testMessage) Type() string { return "featuregate.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "featuregate.test.invalid" }

func (invalidMessage) Validate() error {
	return validationError()
}

func validationError() error {
	return errors.New("invalid")
}

func TestHandlerExecuteSuccess(t *testing.T) {
	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !called {
		t.Fatal("expected handler to be invoked")
	}
}

func TestHandlerValidationShortCircuitsExecution(t *testing.T) {
	called := false
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	})

	err := h.Execute(context.Background(), invalidMessage{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when validation fails")
	}
}

func TestHandlerContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		called = true
		return nil
	})

	err := h.Execute(ctx, testMessage{})
	if err == nil {
		t.Fatal("expected context cancellation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when context is cancelled")
	}
}

func TestHandlerWrapsExecutionError(t *testing.T) {
	execErr := errors.New("boom")
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return execErr
	})

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected wrapped execution error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
}

func TestHandlerHonoursTimeoutOption(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(20 * time.Millisecond):
			return nil
		}
	}, WithTimeout[testMessage](10*time.Millisecond))

	err := h.Execute(context.Background(), testMessage{})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category for timeout, got %v", err)
	}
}

func TestHandlerClosedGuardIsNoOp(t *testing.T) {
	called := false
	logger := &warnRecorder{}
	h := NewHandler[invalidMessage](func(ctx context.Context, msg invalidMessage) error {
		called = true
		return nil
	},
		WithLogger[invalidMessage](logger),
		WithGuard[invalidMessage](func() (bool, string) { return false, "service convex is disabled" }, "database mutation called but database is disabled"),
	)

	if err := h.Execute(context.Background(), invalidMessage{}); err != nil {
		t.Fatalf("expected closed guard to return nil, got %v", err)
	}
	if called {
		t.Fatal("expected handler not to run when guard is closed")
	}
	if len(logger.warnings) != 1 || logger.warnings[0] != "database mutation called but database is disabled" {
		t.Fatalf("unexpected warnings %q", logger.warnings)
	}
}

func TestHandlerReportsTelemetry(t *testing.T) {
	var got TelemetryInfo
	h := NewHandler[testMessage](func(ctx context.Context, msg testMessage) error {
		return errors.New("boom")
	},
		WithOperation[testMessage]("tasks.add"),
		WithGuard[testMessage](func() (bool, string) { return true, "" }, ""),
		WithTelemetry(func(_ context.Context, _ testMessage, info TelemetryInfo) { got = info }),
	)

	if err := h.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected execution error")
	}
	if got.Status != TelemetryStatusFailed || got.Operation != "tasks.add" || got.Command != "featuregate.test.message" {
		t.Fatalf("unexpected telemetry %+v", got)
	}
}

type warnRecorder struct {
	warnings []string
}

func (r *warnRecorder) Trace(string, ...any)            {}
func (r *warnRecorder) Debug(string, ...any)            {}
func (r *warnRecorder) Info(string, ...any)             {}
func (r *warnRecorder) Warn(msg string, _ ...any)       { r.warnings = append(r.warnings, msg) }
func (r *warnRecorder) Error(string, ...any)            {}
func (r *warnRecorder) Fatal(string, ...any)            {}
func (r *warnRecorder) WithContext(context.Context) interfaces.Logger { return r }
