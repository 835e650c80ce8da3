package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-qti2tex/internal/archive"
	"github.com/goliatone/go-qti2tex/internal/commands"
	convertcmd "github.com/goliatone/go-qti2tex/internal/commands/convert"
	"github.com/goliatone/go-qti2tex/internal/exam"
	"github.com/goliatone/go-qti2tex/internal/latex"
	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/internal/logging/console"
	"github.com/goliatone/go-qti2tex/internal/logging/gologger"
	"github.com/goliatone/go-qti2tex/internal/markdown"
	"github.com/goliatone/go-qti2tex/internal/media"
	"github.com/goliatone/go-qti2tex/internal/qti"
	"github.com/goliatone/go-qti2tex/internal/richtext"
	"github.com/goliatone/go-qti2tex/internal/runtimeconfig"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// Options captures what the CLI hands to the bootstrap besides the config.
type Options struct {
	// LogWriter receives console log output; stderr when nil.
	LogWriter      io.Writer
	LoggerProvider interfaces.LoggerProvider
}

// Module bundles the wired convert handler and its logger.
type Module struct {
	Handler  *convertcmd.Handler
	Logger   interfaces.Logger
	Provider interfaces.LoggerProvider
}

// BuildModule validates cfg and wires loggers, the rich-text converter, the
// assembler and the convert command handler.
func BuildModule(cfg runtimeconfig.Config, opts Options) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	provider := opts.LoggerProvider
	if provider == nil {
		var err error
		provider, err = NewLoggerProvider(cfg.Logging, opts.LogWriter)
		if err != nil {
			return nil, err
		}
	}

	converter, err := richtext.New(richtext.Options{
		Provider:   cfg.Converter.Provider,
		PandocPath: cfg.Converter.PandocPath,
		Timeout:    cfg.Converter.Timeout,
		Logger:     logging.RichTextLogger(provider),
	})
	if err != nil {
		return nil, fmt.Errorf("initialise converter: %w", err)
	}

	parser := markdown.NewGoldmarkParser(interfaces.ParseOptions{})
	materials := richtext.NewMaterials(converter, parser)
	examLogger := logging.ExamLogger(provider)
	service := exam.NewService(materials,
		exam.WithLogger(examLogger),
		exam.WithClassifier(qti.NewClassifier(qti.DefaultRules()...)),
		exam.WithRenderer(latex.NewRenderer(materials, latex.WithLogger(examLogger))),
		exam.WithCopier(media.NewCopier(media.WithLogger(logging.MediaLogger(provider)))),
	)

	logger := commands.CommandLogger(provider, "convert")
	handler := convertcmd.NewHandler(service, parser, logger, []archive.Option{
		archive.WithLogger(logging.ArchiveLogger(provider)),
	})

	return &Module{
		Handler:  handler,
		Logger:   logger,
		Provider: provider,
	}, nil
}

// NewLoggerProvider builds the provider named by cfg.Provider.
func NewLoggerProvider(cfg runtimeconfig.LoggingConfig, w io.Writer) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "console":
		level, ok := console.ParseLevel(cfg.Level)
		if !ok {
			return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingLevelInvalid, cfg.Level)
		}
		return console.NewProvider(console.Options{Writer: w, MinLevel: level}), nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
}
