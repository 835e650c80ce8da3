package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInputRequired            = errors.New("qti2tex config: input path is required")
	ErrOutputRequired           = errors.New("qti2tex config: output path is required")
	ErrConverterProviderUnknown = errors.New("qti2tex config: converter provider is invalid")
	ErrConverterTimeoutInvalid  = errors.New("qti2tex config: converter timeout must be zero or positive")
	ErrLoggingProviderRequired  = errors.New("qti2tex config: logging provider is required")
	ErrLoggingProviderUnknown   = errors.New("qti2tex config: logging provider is invalid")
	ErrLoggingLevelInvalid      = errors.New("qti2tex config: logging level is invalid")
	ErrLoggingFormatInvalid     = errors.New("qti2tex config: logging format is invalid")
	ErrPandocPathRequired       = errors.New("qti2tex config: pandoc path is required for the pandoc converter")
)

// Config aggregates everything one conversion run needs.
type Config struct {
	Input        string
	Output       string
	Title        string
	Author       string
	HeaderFile   string
	ReportFile   string
	PrintAnswers bool
	Converter    ConverterConfig
	Logging      LoggingConfig
}

// ConverterConfig selects the rich-text converter.
type ConverterConfig struct {
	// Provider is auto, native or pandoc.
	Provider   string
	PandocPath string
	// Timeout bounds each pandoc invocation; zero disables it.
	Timeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Output: "exam.tex",
		Title:  "Exam",
		Converter: ConverterConfig{
			Provider:   "auto",
			PandocPath: "pandoc",
			Timeout:    30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Input) == "" {
		return ErrInputRequired
	}
	if strings.TrimSpace(cfg.Output) == "" {
		return ErrOutputRequired
	}

	converter := normalize(cfg.Converter.Provider)
	if !isSupportedConverter(converter) {
		return fmt.Errorf("%w: %s", ErrConverterProviderUnknown, cfg.Converter.Provider)
	}
	if converter == "pandoc" && strings.TrimSpace(cfg.Converter.PandocPath) == "" {
		return ErrPandocPathRequired
	}
	if cfg.Converter.Timeout < 0 {
		return ErrConverterTimeoutInvalid
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedConverter(provider string) bool {
	switch provider {
	case "", "auto", "native", "pandoc":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
