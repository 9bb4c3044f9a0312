package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-featuregate/internal/logging"
	"github.com/goliatone/go-featuregate/pkg/interfaces"
)

// Guard reports whether the backing feature is usable. When it is not, the
// reason is logged and the command resolves to nothing.
type Guard func() (enabled bool, reason string)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps command execution with the gate check, context management,
// logging and error tagging shared by every gated mutation.
type Handler[T command.Message] struct {
	exec        command.CommandFunc[T]
	logger      interfaces.Logger
	timeout     time.Duration
	operation   string
	guard       Guard
	disabledMsg string
	telemetry   Telemetry[T]
}

// NewHandler creates a handler that satisfies go-command's Commander interface.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:        fn,
		logger:      logging.NoOp(),
		timeout:     DefaultCommandTimeout,
		disabledMsg: "command called but feature is disabled",
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.telemetry == nil {
		h.telemetry = DefaultTelemetry[T](h.logger)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute. A closed guard turns the
// call into a logged no-op that returns nil.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	messageType := command.GetMessageType(msg)
	fields := map[string]any{
		"command": messageType,
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	logger := logging.WithFields(h.logger, fields)

	if h.guard != nil {
		if enabled, reason := h.guard(); !enabled {
			logger.Warn(h.disabledMsg, "reason", reason)
			return nil
		}
	}

	if err := command.ValidateMessage(msg); err != nil {
		return WrapValidationError(err)
	}

	ctx = EnsureContext(ctx)
	ctx, cancel := WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	logger.Debug("command.execute.start")
	started := time.Now()

	info := TelemetryInfo{
		Command:   messageType,
		Operation: h.operation,
		Fields:    fields,
		Status:    TelemetryStatusSuccess,
		Logger:    logger,
	}

	err := h.exec(ctx, msg)
	ctxErr := ctx.Err()
	switch {
	case err != nil:
		info.Status, info.Error = TelemetryStatusFailed, err
		if ctxErr != nil {
			info.Status = TelemetryStatusContextError
		}
		err = WrapExecuteError(err)
	case ctxErr != nil:
		info.Status, info.Error = TelemetryStatusContextError, ctxErr
		err = wrapContextError(ctxErr)
	}
	info.Duration = time.Since(started)
	h.telemetry(ctx, msg, info)
	return err
}

// WithTimeout overrides the default execution timeout. Zero or negative
// disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = EnsureLogger(logger)
	}
}

// WithOperation sets the operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithGuard gates execution. disabledMsg is the warning logged when the
// guard is closed; blank keeps the default.
func WithGuard[T command.Message](guard Guard, disabledMsg string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.guard = guard
		if disabledMsg != "" {
			h.disabledMsg = disabledMsg
		}
	}
}

// WithTelemetry replaces the default outcome logging.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = telemetry
	}
}
