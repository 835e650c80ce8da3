package markdown

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-qti2tex/internal/validation"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

func TestParseFrontMatter(t *testing.T) {
	data := readFixture(t, "testdata/header.md")

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Title != "Biology Midterm" {
		t.Fatalf("FrontMatter Title mismatch, got %q", fm.Title)
	}
	if fm.Author != "BIO 101, Fall term" {
		t.Fatalf("FrontMatter Author mismatch, got %q", fm.Author)
	}
	if fm.Raw["description"] != "Chapters 1-4" {
		t.Fatalf("FrontMatter Raw description missing: %#v", fm.Raw)
	}
	if len(body) == 0 || !strings.Contains(string(body), "Answer **all** questions.") {
		t.Fatalf("Markdown body not returned correctly: %q", string(body))
	}
}

func TestLoadHeader(t *testing.T) {
	header, err := LoadHeader("testdata/header.md", nil)
	if err != nil {
		t.Fatalf("LoadHeader: %v", err)
	}
	if header.FrontMatter.Description != "Chapters 1-4" {
		t.Fatalf("unexpected description %q", header.FrontMatter.Description)
	}
	if !strings.Contains(header.BodyHTML, "<strong>all</strong>") {
		t.Fatalf("expected rendered emphasis, got %q", header.BodyHTML)
	}
	if !strings.Contains(header.BodyHTML, "<li>Calculators are not allowed.</li>") {
		t.Fatalf("expected rendered list, got %q", header.BodyHTML)
	}
}

func TestLoadHeaderRejectsUnknownKeys(t *testing.T) {
	_, err := LoadHeader("testdata/header_unknown_key.md", nil)
	if !errors.Is(err, validation.ErrSchemaValidation) {
		t.Fatalf("expected schema validation error, got %v", err)
	}
}

func TestLoadHeaderWithoutFrontMatter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.md")
	if err := os.WriteFile(path, []byte("Just instructions."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	header, err := LoadHeader(path, nil)
	if err != nil {
		t.Fatalf("LoadHeader: %v", err)
	}
	if header.FrontMatter.Title != "" {
		t.Fatalf("expected empty title, got %q", header.FrontMatter.Title)
	}
	if !strings.Contains(header.BodyHTML, "Just instructions.") {
		t.Fatalf("expected body html, got %q", header.BodyHTML)
	}
}

func TestGoldmarkParser_Parse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered HTML to include <h1>Heading</h1>, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected rendered HTML to include <strong>, got %q", got)
	}
	if !strings.Contains(got, "<table>") {
		t.Fatalf("expected table extension to be enabled by default, got %q", got)
	}
}

func TestGoldmarkParser_ParseWithOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}

	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps in HTML output, got %q", string(html))
	}
}

func TestGoldmarkParser_SafeModeDropsRawHTML(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{SafeMode: true})

	html, err := parser.Parse([]byte("<script>alert(1)</script>\n\ntext"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if strings.Contains(string(html), "<script>") {
		t.Fatalf("expected raw html to be omitted, got %q", string(html))
	}
}

func readFixture(tb testing.TB, path string) []byte {
	tb.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		tb.Fatalf("read fixture %s: %v", path, err)
	}
	return data
}
