package convertcmd

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-qti2tex/internal/archive"
	"github.com/goliatone/go-qti2tex/internal/exam"
	"github.com/goliatone/go-qti2tex/internal/markdown"
	"github.com/goliatone/go-qti2tex/internal/richtext"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

const fixturePackage = "../../exam/testdata/package"

type recordingConverter struct {
	requests []exam.Request
	inputs   []string
	result   *exam.Result
	err      error
}

func (r *recordingConverter) Convert(_ context.Context, req exam.Request) (*exam.Result, error) {
	r.requests = append(r.requests, req)
	entries, _ := os.ReadDir(req.InputDir)
	for _, e := range entries {
		r.inputs = append(r.inputs, e.Name())
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.result != nil {
		return r.result, nil
	}
	return &exam.Result{Output: req.Output}, nil
}

func newParser() interfaces.MarkdownParser {
	return markdown.NewGoldmarkParser(interfaces.ParseOptions{})
}

func writeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}
	return path
}

func TestHandlerExtractsArchivesAndCleansUp(t *testing.T) {
	input := writeZip(t, map[string]string{"quiz/items.xml": "<questestinterop/>"})
	tempRoot := t.TempDir()
	conv := &recordingConverter{}
	h := NewHandler(conv, newParser(), nil, []archive.Option{archive.WithTempDir(tempRoot)})

	output := filepath.Join(t.TempDir(), "exam.tex")
	if _, err := h.Run(context.Background(), ConvertPackageCommand{Input: input, Output: output, Title: "Quiz"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(conv.requests) != 1 {
		t.Fatalf("expected one conversion, got %d", len(conv.requests))
	}
	req := conv.requests[0]
	if req.Title != "Quiz" || req.Output != output {
		t.Fatalf("unexpected request %+v", req)
	}
	if len(conv.inputs) != 1 || conv.inputs[0] != "quiz" {
		t.Fatalf("expected extracted archive contents, got %v", conv.inputs)
	}
	leftovers, _ := os.ReadDir(tempRoot)
	if len(leftovers) != 0 {
		t.Fatalf("expected extraction dir to be removed, found %v", leftovers)
	}
}

func TestHandlerCleansUpAfterFailure(t *testing.T) {
	input := writeZip(t, map[string]string{"items.xml": "<questestinterop/>"})
	tempRoot := t.TempDir()
	convErr := errors.New("render failed")
	h := NewHandler(&recordingConverter{err: convErr}, newParser(), nil, []archive.Option{archive.WithTempDir(tempRoot)})

	_, err := h.Run(context.Background(), ConvertPackageCommand{Input: input, Output: filepath.Join(t.TempDir(), "exam.tex")})
	if !errors.Is(err, convErr) {
		t.Fatalf("expected converter error in chain, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
	leftovers, _ := os.ReadDir(tempRoot)
	if len(leftovers) != 0 {
		t.Fatalf("expected extraction dir to be removed, found %v", leftovers)
	}
}

func TestHandlerRejectsInvalidCommand(t *testing.T) {
	conv := &recordingConverter{}
	h := NewHandler(conv, newParser(), nil, nil)

	err := h.Execute(context.Background(), ConvertPackageCommand{Input: fixturePackage, Output: "exam.md"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(conv.requests) != 0 {
		t.Fatalf("converter must not run for invalid commands")
	}
}

func TestHandlerLoadsHeaderFile(t *testing.T) {
	header := filepath.Join(t.TempDir(), "exam.md")
	if err := os.WriteFile(header, []byte("---\ntitle: Midterm\n---\nBring a pencil.\n"), 0o644); err != nil {
		t.Fatalf("write header: %v", err)
	}
	conv := &recordingConverter{}
	h := NewHandler(conv, newParser(), nil, nil)

	if err := h.Execute(context.Background(), ConvertPackageCommand{
		Input:      fixturePackage,
		Output:     filepath.Join(t.TempDir(), "exam.tex"),
		HeaderFile: header,
	}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got := conv.requests[0].Header
	if got == nil || got.FrontMatter.Title != "Midterm" || !strings.Contains(got.BodyHTML, "Bring a pencil.") {
		t.Fatalf("unexpected header %+v", got)
	}
}

func TestHandlerEndToEndWithReport(t *testing.T) {
	materials := richtext.NewMaterials(richtext.NewNativeConverter(), newParser())
	h := NewHandler(exam.NewService(materials), newParser(), nil, nil)

	dir := t.TempDir()
	output := filepath.Join(dir, "exam.tex")
	report := filepath.Join(dir, "report.json")
	result, err := h.Run(context.Background(), ConvertPackageCommand{
		Input:        fixturePackage,
		Output:       output,
		ReportFile:   report,
		PrintAnswers: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Count() != 6 {
		t.Fatalf("expected 6 questions, got %d", result.Count())
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), `\printanswers`) {
		t.Fatalf("expected answers to be printed")
	}
	if _, err := os.Stat(report); err != nil {
		t.Fatalf("expected report: %v", err)
	}
}

func TestHandlerPropagatesMissingDocuments(t *testing.T) {
	materials := richtext.NewMaterials(richtext.NewNativeConverter(), newParser())
	h := NewHandler(exam.NewService(materials), newParser(), nil, nil)

	err := h.Execute(context.Background(), ConvertPackageCommand{
		Input:  t.TempDir(),
		Output: filepath.Join(t.TempDir(), "exam.tex"),
	})
	if !errors.Is(err, exam.ErrNoDocuments) {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}
