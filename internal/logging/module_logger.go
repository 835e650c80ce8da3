package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

const (
	rootModule     = "qti2tex"
	examModule     = "qti2tex.exam"
	richtextModule = "qti2tex.richtext"
	mediaModule    = "qti2tex.media"
	archiveModule  = "qti2tex.archive"
)

const (
	fieldDocumentPath = "document"
	fieldItemIdent    = "item"
	fieldQuestionType = "question_type"
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

// ExamLogger returns the logger namespace reserved for the document assembler.
func ExamLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, examModule)
}

// RichTextLogger returns the logger namespace reserved for markup conversion.
func RichTextLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, richtextModule)
}

// MediaLogger returns the logger namespace reserved for asset copying.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// ArchiveLogger returns the logger namespace reserved for package extraction.
func ArchiveLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, archiveModule)
}

// WithItemContext enriches the provided logger with the source document, the
// item identifier and the question type. Empty values are ignored.
func WithItemContext(logger interfaces.Logger, document, ident, questionType string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(document); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(ident); trimmed != "" {
		fields[fieldItemIdent] = trimmed
	}
	if trimmed := strings.TrimSpace(questionType); trimmed != "" {
		fields[fieldQuestionType] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

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
