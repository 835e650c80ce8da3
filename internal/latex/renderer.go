package latex

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/internal/qti"
	"github.com/goliatone/go-qti2tex/internal/tex"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// Markup emitted for the answer areas.
const (
	FillInBlank      = `\fillin[\hspace{1.5in}]`
	EssaySpace       = `\vspace{2.5\baselineskip}`
	UnsupportedNote  = `\\[4pt]\emph{[Unsupported/unknown question type---review manually.]}`
	ConversionFailed = `\\[4pt]\emph{[Question text could not be converted---review manually.]}`
	fillInWidth      = "1.5in"
)

// MaterialConverter turns item material into LaTeX.
type MaterialConverter interface {
	Convert(ctx context.Context, text, texttype string) (string, error)
}

// Fragment is the rendered markup for one question.
type Fragment struct {
	Type     qti.QuestionType
	Kind     qti.Kind
	Text     string
	Fallback bool
	Err      error
}

// Renderer produces exam-class question markup.
type Renderer struct {
	materials MaterialConverter
	logger    interfaces.Logger
}

// RendererOption customises a Renderer.
type RendererOption func(*Renderer)

// WithLogger attaches a logger for conversion fallbacks.
func WithLogger(logger interfaces.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logging.Ensure(logger)
	}
}

// NewRenderer builds a renderer around materials.
func NewRenderer(materials MaterialConverter, opts ...RendererOption) *Renderer {
	r := &Renderer{materials: materials, logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Render dispatches on the rendering kind of qtype. It never fails: when the
// stem or a choice cannot be converted the item is rendered with its plain
// text stem and a review marker, and the cause is kept on the fragment. A
// choice item without choices is rendered as unsupported.
func (r *Renderer) Render(ctx context.Context, qtype qti.QuestionType, item *qti.Item) Fragment {
	if item == nil {
		item = &qti.Item{}
	}
	frag := Fragment{Type: qtype, Kind: qtype.Kind()}
	if frag.Kind.IsChoice() && len(item.Choices) == 0 {
		frag.Kind = qti.KindUnsupported
	}
	text, err := r.render(ctx, frag.Kind, item)
	if err != nil {
		r.logger.Warn("latex.render.fallback",
			"item", item.Ident,
			"question_type", string(qtype),
			"error", err,
		)
		frag.Fallback = true
		frag.Err = err
		text = fallback(item)
	}
	frag.Text = text
	return frag
}

func (r *Renderer) render(ctx context.Context, kind qti.Kind, item *qti.Item) (string, error) {
	stem, err := r.materials.Convert(ctx, item.Stem.Text, item.Stem.Type)
	if err != nil {
		return "", fmt.Errorf("stem: %w", err)
	}

	var b strings.Builder
	b.WriteString(`\question ` + stem + "\n")

	switch kind {
	case qti.KindExclusiveChoice:
		if err := r.choices(ctx, &b, "choices", item); err != nil {
			return "", err
		}
	case qti.KindCheckboxes:
		if err := r.choices(ctx, &b, "checkboxes", item); err != nil {
			return "", err
		}
	case qti.KindFillIn:
		b.WriteString(fillIn(item.Correct) + "\n")
	case qti.KindEssay:
		b.WriteString(EssaySpace + "\n")
	case qti.KindUnsupported:
		b.WriteString(UnsupportedNote + "\n")
	}

	b.WriteString("\n")
	return b.String(), nil
}

func (r *Renderer) choices(ctx context.Context, b *strings.Builder, env string, item *qti.Item) error {
	b.WriteString(`\begin{` + env + "}\n")
	for _, choice := range item.Choices {
		body, err := r.materials.Convert(ctx, choice.Text, choice.Type)
		if err != nil {
			return fmt.Errorf("choice %s: %w", choice.Ident, err)
		}
		if item.Correct.Has(choice.Ident) {
			b.WriteString(`\CorrectChoice ` + body + "\n")
		} else {
			b.WriteString(`\choice ` + body + "\n")
		}
	}
	b.WriteString(`\end{` + env + "}\n")
	return nil
}

// fillIn shows the accepted answers when the exam prints answers and a blank
// of fixed width otherwise.
func fillIn(correct qti.CorrectSet) string {
	if correct.Len() == 0 {
		return FillInBlank
	}
	answers := correct.Idents()
	for i, a := range answers {
		answers[i] = tex.Escape(a)
	}
	return `\fillin[{` + strings.Join(answers, " / ") + `}][` + fillInWidth + `]`
}

func fallback(item *qti.Item) string {
	return `\question ` + tex.Escape(qti.PlainText(item.Stem.Text)) + "\n" + ConversionFailed + "\n\n"
}
