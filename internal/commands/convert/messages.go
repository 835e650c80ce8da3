package convertcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-qti2tex/internal/exam"
)

const convertPackageMessageType = "qti2tex.convert.package"

// ConvertPackageCommand converts a QTI package (directory or zip archive)
// into a single exam document.
type ConvertPackageCommand struct {
	// Input is the package directory or a .zip export.
	Input string `json:"input"`
	// Output is the .tex file to write; media lands next to it.
	Output string `json:"output"`
	// Title and Author are the lowest-precedence header values.
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
	// HeaderFile is an optional markdown file with front matter.
	HeaderFile string `json:"header_file,omitempty"`
	// ReportFile receives a JSON summary when set.
	ReportFile   string `json:"report_file,omitempty"`
	PrintAnswers bool   `json:"print_answers,omitempty"`
	// OnResult receives the conversion result after a successful run.
	OnResult func(*exam.Result) `json:"-"`
}

// Type implements command.Message.
func (ConvertPackageCommand) Type() string { return convertPackageMessageType }

// Validate ensures the paths are usable before the handler runs.
func (cmd ConvertPackageCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Input, validation.Required, validation.By(notBlank("input"))),
		validation.Field(&cmd.Output, validation.Required, validation.By(notBlank("output")), validation.By(func(value any) error {
			if !strings.EqualFold(extension(value.(string)), ".tex") {
				return validation.NewError("qti2tex.convert.output_extension", "output must end in .tex")
			}
			return nil
		})),
		validation.Field(&cmd.ReportFile, validation.By(func(value any) error {
			report := strings.TrimSpace(value.(string))
			if report != "" && report == strings.TrimSpace(cmd.Output) {
				return validation.NewError("qti2tex.convert.report_conflict", "report must not overwrite the output")
			}
			return nil
		})),
	)
}

func notBlank(field string) validation.RuleFunc {
	return func(value any) error {
		if strings.TrimSpace(value.(string)) == "" {
			return validation.NewError("qti2tex.convert."+field+"_required", field+" is required")
		}
		return nil
	}
}

func extension(path string) string {
	path = strings.TrimSpace(path)
	if idx := strings.LastIndexAny(path, `./\`); idx >= 0 && path[idx] == '.' {
		return path[idx:]
	}
	return ""
}
