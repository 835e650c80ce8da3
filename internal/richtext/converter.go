package richtext

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// Converter providers.
const (
	ProviderAuto   = "auto"
	ProviderNative = "native"
	ProviderPandoc = "pandoc"
)

var (
	// ErrPandocUnavailable is returned when the pandoc binary cannot be found.
	ErrPandocUnavailable = errors.New("richtext: pandoc executable not found")
	// ErrUnknownProvider is returned for provider names outside the known set.
	ErrUnknownProvider = errors.New("richtext: unknown converter provider")
)

// Options selects and configures a converter.
type Options struct {
	Provider   string
	PandocPath string
	Timeout    time.Duration
	Logger     interfaces.Logger
}

// New returns the converter named by opts.Provider. The auto provider prefers
// pandoc and falls back to the native converter when it is not installed.
func New(opts Options) (interfaces.RichTextConverter, error) {
	logger := logging.Ensure(opts.Logger)
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = ProviderAuto
	}

	switch provider {
	case ProviderNative:
		logger.Debug("richtext.converter.selected", "provider", ProviderNative)
		return NewNativeConverter(), nil
	case ProviderPandoc:
		pandoc, err := NewPandocConverter(opts.PandocPath, opts.Timeout)
		if err != nil {
			return nil, err
		}
		logger.Debug("richtext.converter.selected", "provider", ProviderPandoc, "path", pandoc.Path())
		return pandoc, nil
	case ProviderAuto:
		pandoc, err := NewPandocConverter(opts.PandocPath, opts.Timeout)
		if err == nil {
			logger.Debug("richtext.converter.selected", "provider", ProviderPandoc, "path", pandoc.Path())
			return pandoc, nil
		}
		logger.Info("richtext.converter.fallback", "provider", ProviderNative, "reason", err.Error())
		return NewNativeConverter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, opts.Provider)
	}
}
