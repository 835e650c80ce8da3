package media

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

// DefaultSkipExtensions are never copied: they are the item documents and
// their schemas.
var DefaultSkipExtensions = []string{".xml", ".xsd"}

// Failure records an asset that could not be copied.
type Failure struct {
	Path string
	Err  error
}

// CopyResult summarises a CopyTree run. Paths are relative to the source
// directory.
type CopyResult struct {
	Copied  []string
	Skipped []string
	Failed  []Failure
}

// CopierOption customises the copier behaviour.
type CopierOption func(*Copier)

// WithLogger attaches a logger for skipped and failed copies.
func WithLogger(logger interfaces.Logger) CopierOption {
	return func(c *Copier) {
		c.logger = logging.Ensure(logger)
	}
}

// WithSkipExtensions replaces the set of extensions that are not copied.
func WithSkipExtensions(exts ...string) CopierOption {
	return func(c *Copier) {
		c.skip = normalizeExtensions(exts)
	}
}

// Copier copies assets from an input tree into one flat directory.
type Copier struct {
	logger interfaces.Logger
	skip   map[string]struct{}
}

// NewCopier constructs a copier that skips DefaultSkipExtensions.
func NewCopier(opts ...CopierOption) *Copier {
	c := &Copier{
		logger: logging.NoOp(),
		skip:   normalizeExtensions(DefaultSkipExtensions),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// CopyTree copies every regular file under src into dst using its base name.
// Files whose name already exists in dst are skipped, so the first file in
// lexical walk order wins a name collision. Individual copy failures are
// recorded and never abort the walk; only an unusable dst is an error.
func (c *Copier) CopyTree(ctx context.Context, src, dst string) (CopyResult, error) {
	var result CopyResult
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return result, fmt.Errorf("create media directory: %w", err)
	}
	dstAbs, _ := filepath.Abs(dst)

	walkErr := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		rel := relative(src, path)
		if err != nil {
			c.logger.Warn("media.walk.failed", "path", rel, "error", err)
			result.Failed = append(result.Failed, Failure{Path: rel, Err: err})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == dstAbs {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || c.skipped(path) {
			return nil
		}

		target := filepath.Join(dst, d.Name())
		if _, statErr := os.Lstat(target); statErr == nil {
			c.logger.Debug("media.copy.skipped", "path", rel, "reason", "exists")
			result.Skipped = append(result.Skipped, rel)
			return nil
		}
		if copyErr := copyFile(path, target); copyErr != nil {
			c.logger.Warn("media.copy.failed", "path", rel, "error", copyErr)
			result.Failed = append(result.Failed, Failure{Path: rel, Err: copyErr})
			return nil
		}
		result.Copied = append(result.Copied, rel)
		return nil
	})
	if walkErr != nil {
		return result, walkErr
	}
	c.logger.Info("media.copy.completed",
		"copied", len(result.Copied),
		"skipped", len(result.Skipped),
		"failed", len(result.Failed),
	)
	return result, nil
}

func (c *Copier) skipped(path string) bool {
	_, ok := c.skip[strings.ToLower(filepath.Ext(path))]
	return ok
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := out.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func normalizeExtensions(exts []string) map[string]struct{} {
	out := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = struct{}{}
	}
	return out
}
