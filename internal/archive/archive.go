// Package archive unpacks item-bank packages into a scoped temporary
// directory.
package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-qti2tex/internal/logging"
	"github.com/goliatone/go-qti2tex/pkg/interfaces"
)

var (
	// ErrUnsafePath reports an archive entry that would land outside the
	// extraction directory.
	ErrUnsafePath = errors.New("archive: entry escapes extraction directory")
	// ErrUnsupportedInput reports an input that is neither a directory nor a
	// zip package.
	ErrUnsupportedInput = errors.New("archive: input is not a directory or .zip package")
)

// Cleanup releases resources acquired by Open or Extract. It is safe to call
// more than once.
type Cleanup func() error

func noCleanup() error { return nil }

// Option customises extraction.
type Option func(*options)

type options struct {
	logger  interfaces.Logger
	tempDir string
}

// WithLogger attaches a logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(o *options) {
		o.logger = logging.Ensure(logger)
	}
}

// WithTempDir sets the parent directory for extraction. The system default is
// used when empty.
func WithTempDir(dir string) Option {
	return func(o *options) {
		o.tempDir = dir
	}
}

// IsArchive reports whether path names a zip package.
func IsArchive(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

// Open resolves input to a directory. Directories are returned as is with a
// no-op cleanup; zip packages are extracted to a temporary directory removed
// by the returned cleanup.
func Open(ctx context.Context, input string, opts ...Option) (string, Cleanup, error) {
	info, err := os.Stat(input)
	if err != nil {
		return "", noCleanup, fmt.Errorf("open input: %w", err)
	}
	if info.IsDir() {
		return input, noCleanup, nil
	}
	if !IsArchive(input) {
		return "", noCleanup, fmt.Errorf("%w: %s", ErrUnsupportedInput, input)
	}
	return Extract(ctx, input, opts...)
}

// Extract unpacks the zip package at path. On failure the partially
// extracted directory is removed before returning.
func Extract(ctx context.Context, path string, opts ...Option) (string, Cleanup, error) {
	cfg := options{logger: logging.NoOp()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", noCleanup, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer zr.Close()

	tmp, err := os.MkdirTemp(cfg.tempDir, "qti2tex-*")
	if err != nil {
		return "", noCleanup, fmt.Errorf("create extraction directory: %w", err)
	}
	removed := false
	cleanup := func() error {
		if removed {
			return nil
		}
		removed = true
		cfg.logger.Debug("archive.cleanup", "dir", tmp)
		return os.RemoveAll(tmp)
	}

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			_ = cleanup()
			return "", noCleanup, err
		}
		if err := extractFile(tmp, f); err != nil {
			_ = cleanup()
			return "", noCleanup, fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}

	cfg.logger.Info("archive.extracted", "archive", path, "dir", tmp, "entries", len(zr.File))
	return tmp, cleanup, nil
}

// SafeJoin joins name onto root and rejects results outside root.
func SafeJoin(root, name string) (string, error) {
	clean := filepath.FromSlash(strings.ReplaceAll(name, `\`, "/"))
	if filepath.IsAbs(clean) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	dst := filepath.Join(root, clean)
	rel, err := filepath.Rel(root, dst)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return dst, nil
}

func extractFile(root string, f *zip.File) error {
	dst, err := SafeJoin(root, f.Name)
	if err != nil {
		return err
	}
	mode := f.FileInfo().Mode()
	if mode.IsDir() {
		return os.MkdirAll(dst, 0o755)
	}
	if !mode.IsRegular() {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
