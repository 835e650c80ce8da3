package commands

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

type testMessage struct{}

func (testMessage) Type() string { return "qti2tex.test.message" }

func (testMessage) Validate() error { return nil }

type invalidMessage struct{}

func (invalidMessage) Type() string { return "qti2tex.test.invalid" }

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

func TestHandlerTelemetryReportsOutcome(t *testing.T) {
	var infos []TelemetryInfo
	telemetry := func(_ context.Context, _ testMessage, info TelemetryInfo) {
		infos = append(infos, info)
	}
	fields := func(testMessage) map[string]any {
		return map[string]any{"input": "bank.zip"}
	}

	ok := NewHandler[testMessage](func(context.Context, testMessage) error { return nil },
		WithTelemetry[testMessage](telemetry),
		WithMessageFields[testMessage](fields),
		WithOperation[testMessage]("convert"),
	)
	if err := ok.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	failing := NewHandler[testMessage](func(context.Context, testMessage) error { return errors.New("boom") },
		WithTelemetry[testMessage](telemetry),
	)
	if err := failing.Execute(context.Background(), testMessage{}); err == nil {
		t.Fatal("expected failure")
	}

	if len(infos) != 2 {
		t.Fatalf("expected 2 telemetry calls, got %d", len(infos))
	}
	first := infos[0]
	if first.Status != TelemetryStatusSuccess || first.Command != "qti2tex.test.message" || first.Operation != "convert" {
		t.Fatalf("unexpected success info %+v", first)
	}
	if first.Fields["input"] != "bank.zip" || first.Fields["operation"] != "convert" {
		t.Fatalf("expected message fields, got %v", first.Fields)
	}
	if infos[1].Status != TelemetryStatusFailed || infos[1].Error == nil {
		t.Fatalf("unexpected failure info %+v", infos[1])
	}
}

func TestHandlerClassifiesWrappedContextErrors(t *testing.T) {
	var status TelemetryStatus
	h := NewHandler[testMessage](func(context.Context, testMessage) error {
		return fmt.Errorf("convert: %w", context.Canceled)
	}, WithTelemetry[testMessage](func(_ context.Context, _ testMessage, info TelemetryInfo) {
		status = info.Status
	}))

	err := h.Execute(context.Background(), testMessage{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in chain, got %v", err)
	}
	if status != TelemetryStatusContextError {
		t.Fatalf("expected context_error status, got %s", status)
	}
}

func TestHandlerWithoutTimeout(t *testing.T) {
	h := NewHandler[testMessage](func(ctx context.Context, _ testMessage) error {
		if _, ok := ctx.Deadline(); ok {
			return errors.New("unexpected deadline")
		}
		return nil
	}, WithTimeout[testMessage](0))

	if err := h.Execute(context.Background(), testMessage{}); err != nil {
		t.Fatalf("expected no deadline, got %v", err)
	}
}
