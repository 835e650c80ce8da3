package exam

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// ManifestName is the package index excluded from item discovery.
const ManifestName = "imsmanifest.xml"

// ErrNoDocuments is returned when an input tree holds no item documents.
var ErrNoDocuments = errors.New("exam: no QTI XML files found")

var documentExtensions = map[string]struct{}{
	".xml":   {},
	".xhtml": {},
}

// IsDocument reports whether a file name is an item document candidate.
func IsDocument(name string) bool {
	base := filepath.Base(name)
	if strings.EqualFold(base, ManifestName) {
		return false
	}
	_, ok := documentExtensions[strings.ToLower(filepath.Ext(base))]
	return ok
}

// Discover walks root and returns item document paths sorted so question
// order is reproducible. Unreadable subdirectories are skipped.
func Discover(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && IsDocument(d.Name()) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover documents: %w", err)
	}
	sort.Strings(out)
	return out, nil
}
