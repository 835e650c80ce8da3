package archive

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func TestExtractAndCleanup(t *testing.T) {
	path := writeZip(t, map[string]string{
		"imsmanifest.xml":      "<manifest/>",
		"quiz/questions.xml":   "<questestinterop/>",
		"quiz/media/chart.png": "png",
	})

	dir, cleanup, err := Extract(context.Background(), path, WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "quiz", "media", "chart.png"))
	if err != nil || string(data) != "png" {
		t.Fatalf("expected extracted asset, got %q (%v)", data, err)
	}

	if err := cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected extraction dir to be removed, stat err=%v", err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("second cleanup must be a no-op: %v", err)
	}
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	path := writeZip(t, map[string]string{"../evil.txt": "x"})
	parent := t.TempDir()

	_, _, err := Extract(context.Background(), path, WithTempDir(parent))
	if !errors.Is(err, ErrUnsafePath) && !errors.Is(err, zip.ErrInsecurePath) {
		t.Fatalf("expected ErrUnsafePath, got %v", err)
	}
	entries, _ := os.ReadDir(parent)
	if len(entries) != 0 {
		t.Fatalf("failed extraction must not leave directories behind: %v", entries)
	}
}

func TestSafeJoin(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a/b.xml", "./c.png", "dir/../d.txt"} {
		if _, err := SafeJoin(root, name); err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
	}
	for _, name := range []string{"../x", "a/../../x", "/etc/passwd", `..\x`} {
		if _, err := SafeJoin(root, name); !errors.Is(err, ErrUnsafePath) {
			t.Fatalf("%s: expected ErrUnsafePath, got %v", name, err)
		}
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	got, cleanup, err := Open(context.Background(), dir)
	if err != nil || got != dir {
		t.Fatalf("expected directory passthrough, got %q (%v)", got, err)
	}
	if err := cleanup(); err != nil {
		t.Fatalf("noop cleanup: %v", err)
	}

	file := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := Open(context.Background(), file); !errors.Is(err, ErrUnsupportedInput) {
		t.Fatalf("expected ErrUnsupportedInput, got %v", err)
	}
	if _, _, err := Open(context.Background(), filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing input")
	}

	zipPath := writeZip(t, map[string]string{"q.xml": "<x/>"})
	extracted, cleanup, err := Open(context.Background(), zipPath, WithTempDir(t.TempDir()))
	if err != nil {
		t.Fatalf("Open zip: %v", err)
	}
	defer cleanup()
	if _, err := os.Stat(filepath.Join(extracted, "q.xml")); err != nil {
		t.Fatalf("expected extracted file: %v", err)
	}
}
