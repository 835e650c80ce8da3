package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// MessageFields extracts log fields from a message.
type MessageFields[T command.Message] func(msg T) map[string]any

// Handler wraps command execution with the shared concerns: validation,
// context checks, logging, telemetry and error categorisation.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    MessageFields[T]
	telemetry Telemetry[T]
}

// NewHandler creates a handler that satisfies go-command's Commander
// interface. Commands run under DefaultCommandTimeout unless WithTimeout says
// otherwise.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Execute conforms to command.Commander[T].Execute.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	ctx = EnsureContext(ctx)
	ctx, cancel := WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	fields := map[string]any{
		"command": command.GetMessageType(msg),
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for k, v := range h.fields(msg) {
			fields[k] = v
		}
	}
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.execute.start")

	started := time.Now()
	err := h.exec(ctx, msg)
	status := TelemetryStatusSuccess
	switch {
	case err != nil && isContextError(err):
		status = TelemetryStatusContextError
		err = wrapContextError(err)
	case err != nil:
		status = TelemetryStatusFailed
		err = wrapExecuteError(err)
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			status = TelemetryStatusContextError
			err = wrapContextError(ctxErr)
		}
	}

	h.report(ctx, msg, TelemetryInfo{
		Command:   command.GetMessageType(msg),
		Operation: h.operation,
		Fields:    fields,
		Duration:  time.Since(started),
		Error:     err,
		Status:    status,
		Logger:    logger,
	})
	return err
}

func (h *Handler[T]) report(ctx context.Context, msg T, info TelemetryInfo) {
	telemetry := h.telemetry
	if telemetry == nil {
		telemetry = DefaultTelemetry[T](info.Logger)
	}
	telemetry(ctx, msg, info)
}

// WithTimeout overrides the default execution timeout. Zero or a negative
// value disables it.
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

// WithOperation sets an operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds message-derived fields to every log entry.
func WithMessageFields[T command.Message](fn func(msg T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithTelemetry replaces the default outcome logging.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = telemetry
	}
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
