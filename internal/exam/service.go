package exam

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-qti2tex/internal/identity"
	"github.com/goliatone/go-qti2tex/internal/latex"
	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/internal/markdown"
	"github.com/goliatone/go-qti2tex/internal/media"
	"github.com/goliatone/go-qti2tex/internal/qti"
	"github.com/goliatone/go-qti2tex/internal/tex"
	"github.com/goliatone/go-qti2tex/internal/util"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// DefaultTitle is used when neither the request nor the input names the exam.
const DefaultTitle = "Exam"

// ErrOutputRequired is returned when a request has no output path.
var ErrOutputRequired = errors.New("exam: output path required")

// Request describes one conversion.
type Request struct {
	InputDir     string
	Output       string
	Title        string
	Author       string
	Header       *markdown.Header
	PrintAnswers bool
}

// DocumentResult records how one discovered document was handled.
type DocumentResult struct {
	Path    string
	ID      uuid.UUID
	Items   int
	Skipped bool
	Err     error
}

// Question records one rendered item.
type Question struct {
	Number   int
	ID       uuid.UUID
	Ident    string
	Title    string
	Document string
	Type     qti.QuestionType
	Kind     qti.Kind
	Fallback bool
	Err      error
}

// Result summarises a conversion.
type Result struct {
	Output    string
	MediaDir  string
	Title     string
	Questions []Question
	Documents []DocumentResult
	Media     media.CopyResult
	MediaErr  error
}

// Count returns the number of emitted questions.
func (r *Result) Count() int {
	if r == nil {
		return 0
	}
	return len(r.Questions)
}

// MaterialConverter renders item material to LaTeX.
type MaterialConverter = latex.MaterialConverter

// ServiceOption customises the service.
type ServiceOption func(*Service)

// WithLogger sets the assembler logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

// WithClassifier replaces the default classification rules.
func WithClassifier(classifier *qti.Classifier) ServiceOption {
	return func(s *Service) {
		if classifier != nil {
			s.classifier = classifier
		}
	}
}

// WithCopier replaces the media copier.
func WithCopier(copier *media.Copier) ServiceOption {
	return func(s *Service) {
		if copier != nil {
			s.copier = copier
		}
	}
}

// WithRenderer replaces the question renderer.
func WithRenderer(renderer *latex.Renderer) ServiceOption {
	return func(s *Service) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// Service converts item-bank directories into exam documents.
type Service struct {
	materials  MaterialConverter
	renderer   *latex.Renderer
	classifier *qti.Classifier
	copier     *media.Copier
	logger     interfaces.Logger
}

// NewService wires the assembler around a material converter.
func NewService(materials MaterialConverter, opts ...ServiceOption) *Service {
	s := &Service{
		materials:  materials,
		classifier: qti.NewClassifier(),
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.renderer == nil {
		s.renderer = latex.NewRenderer(materials, latex.WithLogger(s.logger))
	}
	if s.copier == nil {
		s.copier = media.NewCopier(media.WithLogger(s.logger))
	}
	return s
}

type parsedDocument struct {
	rel string
	doc *qti.Document
}

// Convert runs the whole pipeline. Finding no documents fails before anything
// is written. Malformed documents and failed media copies are recorded and
// skipped; the output is committed only after every item has rendered.
func (s *Service) Convert(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Output) == "" {
		return nil, ErrOutputRequired
	}
	paths, err := Discover(req.InputDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, req.InputDir)
	}

	result := &Result{
		Output:   req.Output,
		MediaDir: filepath.Join(filepath.Dir(req.Output), latex.DefaultMediaDir),
	}
	s.logger.Info("exam.convert.start", "input", req.InputDir, "output", req.Output, "documents", len(paths))

	result.Media, result.MediaErr = s.copier.CopyTree(ctx, req.InputDir, result.MediaDir)
	if result.MediaErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("exam.media.failed", "dir", result.MediaDir, "error", result.MediaErr)
	}

	docs, err := s.parseDocuments(ctx, req.InputDir, paths, result)
	if err != nil {
		return nil, err
	}

	header, err := s.header(ctx, req, docs)
	if err != nil {
		return nil, err
	}
	result.Title = header.Title

	var buf bytes.Buffer
	if err := latex.WriteHeader(&buf, header); err != nil {
		return nil, err
	}
	for _, pd := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s.renderDocument(ctx, &buf, pd, result)
	}
	if err := latex.WriteFooter(&buf); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(req.Output, buf.Bytes()); err != nil {
		return nil, err
	}
	s.logger.Info("exam.convert.completed", "output", req.Output, "questions", result.Count())
	return result, nil
}

func (s *Service) parseDocuments(ctx context.Context, root string, paths []string, result *Result) ([]parsedDocument, error) {
	docs := make([]parsedDocument, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel := relativePath(root, path)
		entry := DocumentResult{Path: rel, ID: identity.DocumentUUID(rel)}

		data, err := os.ReadFile(path)
		if err == nil {
			var doc *qti.Document
			doc, err = qti.ParseDocument(rel, data)
			if err == nil {
				entry.Items = len(doc.Items)
				docs = append(docs, parsedDocument{rel: rel, doc: doc})
			}
		}
		if err != nil {
			s.logger.Warn("exam.document.skipped", "document", rel, "error", err)
			entry.Skipped = true
			entry.Err = err
		}
		result.Documents = append(result.Documents, entry)
	}
	return docs, nil
}

// header resolves title and description. A non-empty value found in a
// document wins over the header file, which wins over the request; among
// documents the last one in sort order wins.
func (s *Service) header(ctx context.Context, req Request, docs []parsedDocument) (latex.Header, error) {
	h := latex.Header{
		Title:        strings.TrimSpace(req.Title),
		Author:       strings.TrimSpace(req.Author),
		PrintAnswers: req.PrintAnswers,
	}
	if h.Title == "" {
		h.Title = DefaultTitle
	}

	if req.Header != nil {
		fm := req.Header.FrontMatter
		if fm.Title != "" {
			h.Title = fm.Title
		}
		h.Author = util.FirstNonEmpty(h.Author, fm.Author)
		if fm.Description != "" {
			h.Description = tex.Escape(fm.Description)
		}
		if req.Header.BodyHTML != "" {
			instructions, err := s.materials.Convert(ctx, req.Header.BodyHTML, qti.TextTypeHTML)
			if err != nil {
				return h, fmt.Errorf("render header instructions: %w", err)
			}
			h.Instructions = instructions
		}
	}

	var description string
	found := false
	for _, pd := range docs {
		if pd.doc.HasTitle && pd.doc.Title != "" {
			h.Title = pd.doc.Title
		}
		if pd.doc.HasDescription && pd.doc.Description != "" {
			description, found = pd.doc.Description, true
		}
	}
	if found {
		converted, err := s.materials.Convert(ctx, media.RewriteImageSources(description), qti.TextTypeHTML)
		if err != nil {
			s.logger.Warn("exam.description.fallback", "error", err)
			converted = tex.Escape(qti.PlainText(description))
		}
		h.Description = converted
	}
	return h, nil
}

func (s *Service) renderDocument(ctx context.Context, buf *bytes.Buffer, pd parsedDocument, result *Result) {
	for _, skipped := range pd.doc.Skipped {
		s.logger.Info("exam.section_child.skipped",
			"document", pd.rel,
			"tag", skipped.Tag,
			"ident", skipped.Ident,
			"reason", skipped.Reason,
		)
	}

	for position, el := range pd.doc.Items {
		item := qti.ParseItem(el)
		rewriteMedia(item)
		qtype := s.classifier.Classify(item)
		frag := s.renderer.Render(ctx, qtype, item)
		buf.WriteString(frag.Text)

		q := Question{
			Number:   result.Count() + 1,
			ID:       identity.QuestionUUID(pd.rel, item.Ident, position),
			Ident:    item.Ident,
			Title:    item.Title,
			Document: pd.rel,
			Type:     qtype,
			Kind:     frag.Kind,
			Fallback: frag.Fallback,
			Err:      frag.Err,
		}
		result.Questions = append(result.Questions, q)

		logger := logging.WithItemContext(s.logger, pd.rel, item.Ident, string(qtype))
		logger.Debug("exam.item.rendered", "number", q.Number, "kind", frag.Kind.String())
		if frag.Kind == qti.KindUnsupported {
			logger.Info("exam.item.unsupported", "number", q.Number)
		}
	}
}

func rewriteMedia(item *qti.Item) {
	item.Stem.Text = media.RewriteImageSources(item.Stem.Text)
	for i := range item.Choices {
		item.Choices[i].Text = media.RewriteImageSources(item.Choices[i].Text)
	}
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
