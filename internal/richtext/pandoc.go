package richtext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

const defaultPandocPath = "pandoc"

// PandocConverter converts HTML by piping it through `pandoc -f html -t latex`.
type PandocConverter struct {
	path    string
	timeout time.Duration
}

var _ interfaces.RichTextConverter = (*PandocConverter)(nil)

// NewPandocConverter resolves the pandoc executable. A zero timeout leaves
// each conversion bounded only by the caller's context.
func NewPandocConverter(path string, timeout time.Duration) (*PandocConverter, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPandocPath
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPandocUnavailable, err)
	}
	return &PandocConverter{path: resolved, timeout: timeout}, nil
}

// Path returns the resolved executable path.
func (p *PandocConverter) Path() string {
	return p.path
}

// Convert runs pandoc on fragment and returns its LaTeX output.
func (p *PandocConverter) Convert(ctx context.Context, fragment string) (string, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.path, "--from=html", "--to=latex", "--wrap=none")
	cmd.Stdin = strings.NewReader(fragment)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("pandoc: %w", ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("pandoc: %w: %s", err, msg)
		}
		return "", fmt.Errorf("pandoc: %w", err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
