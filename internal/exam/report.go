package exam

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Report is the JSON summary written next to a conversion.
type Report struct {
	Output    string           `json:"output"`
	MediaDir  string           `json:"media_dir"`
	Title     string           `json:"title"`
	Questions int              `json:"questions"`
	Documents []DocumentReport `json:"documents"`
	Media     MediaReport      `json:"media"`
	Items     []QuestionReport `json:"items"`
}

// DocumentReport summarises one discovered document.
type DocumentReport struct {
	ID      uuid.UUID `json:"id"`
	Path    string    `json:"path"`
	Items   int       `json:"items"`
	Skipped bool      `json:"skipped,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// MediaReport summarises the asset copy.
type MediaReport struct {
	Copied  int      `json:"copied"`
	Skipped []string `json:"skipped,omitempty"`
	Failed  []string `json:"failed,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// QuestionReport describes one emitted question.
type QuestionReport struct {
	Number   int       `json:"number"`
	ID       uuid.UUID `json:"id"`
	Key      string    `json:"key"`
	Ident    string    `json:"ident,omitempty"`
	Document string    `json:"document"`
	Type     string    `json:"type"`
	Kind     string    `json:"kind"`
	Fallback bool      `json:"fallback,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Report builds the JSON summary for r.
func (r *Result) Report() Report {
	rep := Report{
		Output:    r.Output,
		MediaDir:  r.MediaDir,
		Title:     r.Title,
		Questions: r.Count(),
		Documents: make([]DocumentReport, 0, len(r.Documents)),
		Items:     make([]QuestionReport, 0, len(r.Questions)),
		Media: MediaReport{
			Copied:  len(r.Media.Copied),
			Skipped: r.Media.Skipped,
			Error:   errorText(r.MediaErr),
		},
	}
	for _, f := range r.Media.Failed {
		rep.Media.Failed = append(rep.Media.Failed, f.Path+": "+errorText(f.Err))
	}
	for _, d := range r.Documents {
		rep.Documents = append(rep.Documents, DocumentReport{
			ID:      d.ID,
			Path:    d.Path,
			Items:   d.Items,
			Skipped: d.Skipped,
			Error:   errorText(d.Err),
		})
	}
	for _, q := range r.Questions {
		rep.Items = append(rep.Items, QuestionReport{
			Number:   q.Number,
			ID:       q.ID,
			Key:      questionKey(q),
			Ident:    q.Ident,
			Document: q.Document,
			Type:     string(q.Type),
			Kind:     q.Kind.String(),
			Fallback: q.Fallback,
			Error:    errorText(q.Err),
		})
	}
	return rep
}

// MarshalReport encodes the report as indented JSON.
func (r *Result) MarshalReport() ([]byte, error) {
	data, err := json.MarshalIndent(r.Report(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteReport writes the JSON report to path.
func (r *Result) WriteReport(path string) error {
	data, err := r.MarshalReport()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// questionKey is a readable, stable handle for a question: the slug of its
// title, else of its ident, else of its document and number.
func questionKey(q Question) string {
	for _, candidate := range []string{q.Title, q.Ident} {
		if key, err := slug.Normalize(candidate); err == nil && key != "" {
			return key
		}
	}
	base := strings.TrimSuffix(filepath.Base(q.Document), filepath.Ext(q.Document))
	if key, err := slug.Normalize(base + "-" + strconv.Itoa(q.Number)); err == nil && key != "" {
		return key
	}
	return "question-" + strconv.Itoa(q.Number)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
