package latex

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-qti2tex/internal/qti"
	"github.com/goliatone/go-qti2tex/internal/richtext"
)

func newTestRenderer() *Renderer {
	return NewRenderer(richtext.NewMaterials(richtext.NewNativeConverter(), nil))
}

func choiceItem(correct ...string) *qti.Item {
	set := qti.CorrectSet{}
	for _, id := range correct {
		set[id] = struct{}{}
	}
	return &qti.Item{
		Ident: "q",
		Stem:  qti.Material{Text: "<p>What is 2+2?</p>", Type: qti.TextTypeHTML},
		Choices: []qti.Choice{
			{Ident: "id1", Material: qti.Material{Text: "3", Type: qti.TextTypePlain}},
			{Ident: "id2", Material: qti.Material{Text: "4", Type: qti.TextTypePlain}},
		},
		Correct:   set,
		Responses: qti.Responses{Choice: true},
	}
}

func TestRenderMultipleChoice(t *testing.T) {
	frag := newTestRenderer().Render(context.Background(), qti.TypeMultipleChoice, choiceItem("id2"))
	want := "\\question What is 2+2?\n" +
		"\\begin{choices}\n" +
		"\\choice 3\n" +
		"\\CorrectChoice 4\n" +
		"\\end{choices}\n\n"
	if frag.Text != want {
		t.Fatalf("expected\n%q\ngot\n%q", want, frag.Text)
	}
	if frag.Kind != qti.KindExclusiveChoice || frag.Fallback {
		t.Fatalf("unexpected fragment %+v", frag)
	}
}

func TestRenderTrueFalseUsesExclusiveChoices(t *testing.T) {
	item := choiceItem("t")
	item.Choices = []qti.Choice{
		{Ident: "t", Material: qti.Material{Text: "True"}},
		{Ident: "f", Material: qti.Material{Text: "False"}},
	}
	frag := newTestRenderer().Render(context.Background(), qti.Classify(item), item)
	if !strings.Contains(frag.Text, "\\begin{choices}\n\\CorrectChoice True\n\\choice False\n\\end{choices}") {
		t.Fatalf("unexpected true/false markup %q", frag.Text)
	}
}

func TestRenderMultipleAnswersUsesCheckboxes(t *testing.T) {
	frag := newTestRenderer().Render(context.Background(), qti.TypeMultipleAnswers, choiceItem("id1", "id2"))
	if !strings.Contains(frag.Text, "\\begin{checkboxes}\n\\CorrectChoice 3\n\\CorrectChoice 4\n\\end{checkboxes}") {
		t.Fatalf("unexpected checkbox markup %q", frag.Text)
	}
}

func TestRenderAnswerAreas(t *testing.T) {
	stem := qti.Material{Text: "Name a noble gas.", Type: qti.TextTypePlain}
	cases := []struct {
		qtype qti.QuestionType
		item  *qti.Item
		want  string
	}{
		{qti.TypeShortAnswer, &qti.Item{Stem: stem}, FillInBlank},
		{qti.TypeShortAnswer, &qti.Item{Stem: stem, Correct: qti.CorrectSet{"neon": {}, "argon": {}}}, `\fillin[{argon / neon}][1.5in]`},
		{qti.TypeShortAnswer, &qti.Item{Stem: stem, Correct: qti.CorrectSet{"a[1]": {}}}, `\fillin[{a[1]}][1.5in]`},
		{qti.TypeMultipleChoice, &qti.Item{Stem: stem}, UnsupportedNote},
		{qti.TypeMultipleAnswers, &qti.Item{Stem: stem}, UnsupportedNote},
		{qti.TypeNumerical, &qti.Item{Stem: stem}, FillInBlank},
		{qti.TypeEssay, &qti.Item{Stem: stem}, EssaySpace},
		{"text_only_question", &qti.Item{Stem: stem}, EssaySpace},
		{qti.TypeUnknown, &qti.Item{Stem: stem}, UnsupportedNote},
		{"matching_question", &qti.Item{Stem: stem}, UnsupportedNote},
	}
	for _, tc := range cases {
		t.Run(string(tc.qtype), func(t *testing.T) {
			frag := newTestRenderer().Render(context.Background(), tc.qtype, tc.item)
			want := "\\question Name a noble gas.\n" + tc.want + "\n\n"
			if frag.Text != want {
				t.Fatalf("expected %q, got %q", want, frag.Text)
			}
			if strings.Contains(frag.Text, `\begin{choices}`) {
				t.Fatalf("answer areas must not render a choice list")
			}
		})
	}
}

func TestRenderChoiceItemWithoutChoicesIsUnsupported(t *testing.T) {
	item := &qti.Item{Stem: qti.Material{Text: "Pick one.", Type: qti.TextTypePlain}}
	frag := newTestRenderer().Render(context.Background(), qti.TypeTrueFalse, item)
	if frag.Kind != qti.KindUnsupported {
		t.Fatalf("expected unsupported kind, got %s", frag.Kind)
	}
	if frag.Type != qti.TypeTrueFalse {
		t.Fatalf("expected classified type to be kept, got %s", frag.Type)
	}
	if strings.Contains(frag.Text, `\begin{`) || !strings.Contains(frag.Text, UnsupportedNote) {
		t.Fatalf("expected review note instead of an empty list, got %q", frag.Text)
	}
}

func TestRenderEscapesReservedCharacters(t *testing.T) {
	item := &qti.Item{Stem: qti.Material{Text: `Cost # $ % & _ ^ ~ \ total`, Type: qti.TextTypePlain}}
	frag := newTestRenderer().Render(context.Background(), qti.TypeEssay, item)
	stem := strings.TrimPrefix(strings.SplitN(frag.Text, "\n", 2)[0], `\question `)
	want := `Cost \# \$ \% \& \_ \^{} \~{} \textbackslash{} total`
	if stem != want {
		t.Fatalf("expected %q, got %q", want, stem)
	}
}

type failingMaterials struct {
	failOn string
}

func (f failingMaterials) Convert(_ context.Context, text, _ string) (string, error) {
	if strings.Contains(text, f.failOn) {
		return "", errors.New("converter crashed")
	}
	return text, nil
}

func TestRenderFallsBackOnConversionFailure(t *testing.T) {
	for _, failOn := range []string{"2+2", "4"} {
		r := NewRenderer(failingMaterials{failOn: failOn})
		frag := r.Render(context.Background(), qti.TypeMultipleChoice, choiceItem("id2"))
		if !frag.Fallback || frag.Err == nil {
			t.Fatalf("%s: expected fallback fragment, got %+v", failOn, frag)
		}
		want := "\\question What is 2+2?\n" + ConversionFailed + "\n\n"
		if frag.Text != want {
			t.Fatalf("%s: expected %q, got %q", failOn, want, frag.Text)
		}
	}
}

func TestRenderNilItem(t *testing.T) {
	frag := newTestRenderer().Render(context.Background(), qti.TypeUnknown, nil)
	if frag.Text != "\\question \n"+UnsupportedNote+"\n\n" {
		t.Fatalf("unexpected fragment %q", frag.Text)
	}
}
