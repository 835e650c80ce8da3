package qti

import (
	"strings"

	"golang.org/x/net/html"
)

// QuestionType is the open set of type names a producer may declare.
type QuestionType string

const (
	TypeMultipleChoice  QuestionType = "multiple_choice_question"
	TypeTrueFalse       QuestionType = "true_false_question"
	TypeMultipleAnswers QuestionType = "multiple_answers_question"
	TypeShortAnswer     QuestionType = "short_answer_question"
	TypeNumerical       QuestionType = "numerical_question"
	TypeEssay           QuestionType = "essay_question"
	TypeUnknown         QuestionType = "unknown"
)

// Kind is the closed set of rendering variants.
type Kind int

const (
	KindUnsupported Kind = iota
	KindExclusiveChoice
	KindCheckboxes
	KindFillIn
	KindEssay
)

func (k Kind) String() string {
	switch k {
	case KindExclusiveChoice:
		return "exclusive_choice"
	case KindCheckboxes:
		return "checkboxes"
	case KindFillIn:
		return "fill_in"
	case KindEssay:
		return "essay"
	default:
		return "unsupported"
	}
}

// IsChoice reports whether the kind renders a choice list.
func (k Kind) IsChoice() bool {
	return k == KindExclusiveChoice || k == KindCheckboxes
}

// Base strips the conventional "_question" suffix and lowercases the name.
func (t QuestionType) Base() string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(string(t))), "_question")
}

// Kind maps the type name onto its rendering variant. Names outside the
// known set map to KindUnsupported.
func (t QuestionType) Kind() Kind {
	switch t.Base() {
	case "multiple_choice", "true_false":
		return KindExclusiveChoice
	case "multiple_answers":
		return KindCheckboxes
	case "short_answer", "numerical", "fill_in_the_blank":
		return KindFillIn
	case "essay", "text_only":
		return KindEssay
	default:
		return KindUnsupported
	}
}

// Rule inspects an item and reports a type when it applies.
type Rule struct {
	Name  string
	Apply func(*Item) (QuestionType, bool)
}

// metadataLabels are consulted in order for a declared type.
var metadataLabels = []string{"question_type", "interaction_type"}

// DefaultRules returns the classification chain in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "metadata", Apply: declaredType},
		{Name: "true_false", Apply: func(it *Item) (QuestionType, bool) {
			return TypeTrueFalse, it.Responses.Choice && isTrueFalse(it.Choices)
		}},
		{Name: "multiple_answers", Apply: func(it *Item) (QuestionType, bool) {
			return TypeMultipleAnswers, it.Responses.Choice && it.Correct.Len() > 1
		}},
		{Name: "multiple_choice", Apply: func(it *Item) (QuestionType, bool) {
			return TypeMultipleChoice, it.Responses.Choice
		}},
		{Name: "short_answer", Apply: func(it *Item) (QuestionType, bool) {
			return TypeShortAnswer, it.Responses.Text
		}},
		{Name: "numerical", Apply: func(it *Item) (QuestionType, bool) {
			return TypeNumerical, it.Responses.Numeric
		}},
	}
}

// Classifier applies rules in order; the first match wins.
type Classifier struct {
	rules []Rule
}

// NewClassifier builds a classifier. With no rules DefaultRules is used.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{rules: rules}
}

// Classify returns the first matching rule's type, or TypeUnknown.
func (c *Classifier) Classify(item *Item) QuestionType {
	if item == nil {
		return TypeUnknown
	}
	for _, rule := range c.rules {
		if t, ok := rule.Apply(item); ok {
			return t
		}
	}
	return TypeUnknown
}

// Classify uses the default rule chain.
func Classify(item *Item) QuestionType {
	return NewClassifier().Classify(item)
}

func declaredType(it *Item) (QuestionType, bool) {
	for _, label := range metadataLabels {
		if v, ok := it.Metadata.Lookup(label); ok {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				return QuestionType(v), true
			}
		}
	}
	return "", false
}

func isTrueFalse(choices []Choice) bool {
	if len(choices) != 2 {
		return false
	}
	seen := map[string]bool{}
	for _, c := range choices {
		seen[strings.ToLower(PlainText(c.Text))] = true
	}
	return seen["true"] && seen["false"]
}

// PlainText strips markup from an HTML fragment, decodes entities and
// collapses whitespace.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}
