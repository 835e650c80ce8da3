package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// UpdateGoldenEnv rewrites golden files instead of comparing when set to 1.
const UpdateGoldenEnv = "QTI2TEX_UPDATE_GOLDEN"

// LoadFixture reads a test fixture.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// AssertGolden compares got with the contents of path.
func AssertGolden(t testing.TB, path, got string) {
	t.Helper()
	if os.Getenv(UpdateGoldenEnv) == "1" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			t.Fatalf("update golden %s: %v", path, err)
		}
		return
	}
	want, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load golden %s: %v", path, err)
	}
	if string(want) != got {
		t.Fatalf("output does not match %s\n--- want ---\n%s\n--- got ---\n%s", path, want, got)
	}
}
