package richtext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-qti2tex/internal/tex"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// Format is the rendering path chosen for a texttype.
type Format int

const (
	FormatHTML Format = iota
	FormatPlain
	FormatMarkdown
)

// FormatOf maps a mattext texttype onto a rendering path. Missing or
// unrecognised types are treated as HTML.
func FormatOf(texttype string) Format {
	t := strings.ToLower(strings.TrimSpace(texttype))
	switch {
	case t == "text/plain" || t == "plain" || t == "text":
		return FormatPlain
	case strings.Contains(t, "markdown"):
		return FormatMarkdown
	default:
		return FormatHTML
	}
}

// Materials converts item material to LaTeX according to its texttype.
type Materials struct {
	converter interfaces.RichTextConverter
	markdown  interfaces.MarkdownParser
}

// NewMaterials wires a converter and an optional Markdown parser.
func NewMaterials(converter interfaces.RichTextConverter, markdown interfaces.MarkdownParser) *Materials {
	if converter == nil {
		converter = NewNativeConverter()
	}
	return &Materials{converter: converter, markdown: markdown}
}

// Convert renders text declared with texttype. Plain text is escaped,
// Markdown is rendered to HTML first, everything else goes through the
// converter as HTML.
func (m *Materials) Convert(ctx context.Context, text, texttype string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	switch FormatOf(texttype) {
	case FormatPlain:
		return tex.Escape(text), nil
	case FormatMarkdown:
		if m.markdown == nil {
			return "", errors.New("richtext: markdown material without a markdown parser")
		}
		rendered, err := m.markdown.Parse([]byte(text))
		if err != nil {
			return "", fmt.Errorf("render markdown material: %w", err)
		}
		text = string(rendered)
	}
	out, err := m.converter.Convert(ctx, text)
	if err != nil {
		return "", fmt.Errorf("convert material: %w", err)
	}
	return out, nil
}
