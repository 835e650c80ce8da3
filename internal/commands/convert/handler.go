package convertcmd

import (
	"context"
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-qti2tex/internal/archive"
	"github.com/goliatone/go-qti2tex/internal/commands"
	"github.com/goliatone/go-qti2tex/internal/exam"
	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/internal/markdown"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

const convertOperation = "convert.package"

// Converter is the assembler contract the handler drives.
type Converter interface {
	Convert(ctx context.Context, req exam.Request) (*exam.Result, error)
}

var _ command.Commander[ConvertPackageCommand] = (*Handler)(nil)

// Handler runs package conversions through the shared command handler.
type Handler struct {
	inner *commands.Handler[ConvertPackageCommand]
}

// NewHandler binds the handler to a converter. parser renders the body of
// header files; archiveOpts configure zip extraction. Conversions run
// without a timeout unless opts add one.
func NewHandler(converter Converter, parser interfaces.MarkdownParser, logger interfaces.Logger, archiveOpts []archive.Option, opts ...commands.HandlerOption[ConvertPackageCommand]) *Handler {
	if converter == nil {
		panic("convertcmd: converter cannot be nil")
	}
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ConvertPackageCommand) error {
		dir, cleanup, err := archive.Open(ctx, msg.Input, archiveOpts...)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := cleanup(); cerr != nil {
				baseLogger.Warn("convert.cleanup.failed", "input", msg.Input, "error", cerr)
			}
		}()

		req := exam.Request{
			InputDir:     dir,
			Output:       msg.Output,
			Title:        msg.Title,
			Author:       msg.Author,
			PrintAnswers: msg.PrintAnswers,
		}
		if path := strings.TrimSpace(msg.HeaderFile); path != "" {
			header, err := markdown.LoadHeader(path, parser)
			if err != nil {
				return fmt.Errorf("load header file: %w", err)
			}
			req.Header = header
		}

		result, err := converter.Convert(ctx, req)
		if err != nil {
			return err
		}
		if path := strings.TrimSpace(msg.ReportFile); path != "" {
			if err := result.WriteReport(path); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
		}

		logging.WithFields(baseLogger, map[string]any{
			"questions": result.Count(),
			"documents": len(result.Documents),
			"media":     len(result.Media.Copied),
		}).Info("convert.package.completed")
		if msg.OnResult != nil {
			msg.OnResult(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ConvertPackageCommand]{
		commands.WithLogger[ConvertPackageCommand](baseLogger),
		commands.WithOperation[ConvertPackageCommand](convertOperation),
		commands.WithTimeout[ConvertPackageCommand](0),
		commands.WithMessageFields(func(msg ConvertPackageCommand) map[string]any {
			fields := map[string]any{
				"input":  msg.Input,
				"output": msg.Output,
			}
			if msg.HeaderFile != "" {
				fields["header_file"] = msg.HeaderFile
			}
			if msg.ReportFile != "" {
				fields["report_file"] = msg.ReportFile
			}
			if msg.PrintAnswers {
				fields["print_answers"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ConvertPackageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &Handler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ConvertPackageCommand].
func (h *Handler) Execute(ctx context.Context, msg ConvertPackageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// Run executes msg and returns the conversion result.
func (h *Handler) Run(ctx context.Context, msg ConvertPackageCommand) (*exam.Result, error) {
	var result *exam.Result
	observer := msg.OnResult
	msg.OnResult = func(r *exam.Result) {
		result = r
		if observer != nil {
			observer(r)
		}
	}
	if err := h.Execute(ctx, msg); err != nil {
		return nil, err
	}
	return result, nil
}
