package markdown

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-qti2tex/internal/util"
	"github.com/goliatone/go-qti2tex/internal/validation"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// Header is an exam header file: front matter defaults plus a Markdown body
// rendered to HTML for the instructions block.
type Header struct {
	Path        string
	FrontMatter interfaces.FrontMatter
	Body        []byte
	BodyHTML    string
}

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured frontmatter, the Markdown
// body without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// LoadHeader reads a header file, validates its front matter and renders the
// body with parser.
func LoadHeader(path string, parser interfaces.MarkdownParser) (*Header, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read header %s: %w", path, err)
	}
	return BuildHeader(path, source, parser)
}

// BuildHeader is LoadHeader for in-memory sources.
func BuildHeader(path string, source []byte, parser interfaces.MarkdownParser) (*Header, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateHeader(fm.Raw); err != nil {
		return nil, fmt.Errorf("header %s: %w", path, err)
	}

	header := &Header{
		Path:        path,
		FrontMatter: fm,
		Body:        body,
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return header, nil
	}
	if parser == nil {
		parser = NewGoldmarkParser(interfaces.ParseOptions{})
	}
	rendered, err := parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("header %s: %w", path, err)
	}
	header.BodyHTML = strings.TrimSpace(string(rendered))
	return header, nil
}

type frontMatterEnvelope struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Author      string         `yaml:"author"`
	Custom      map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	raw := util.CloneAnyMap(env.Custom)

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Description != "" {
		raw["description"] = env.Description
	}
	if env.Author != "" {
		raw["author"] = env.Author
	}

	return interfaces.FrontMatter{
		Title:       strings.TrimSpace(env.Title),
		Description: strings.TrimSpace(env.Description),
		Author:      strings.TrimSpace(env.Author),
		Custom:      util.CloneAnyMap(env.Custom),
		Raw:         raw,
	}
}
