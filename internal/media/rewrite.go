package media

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var sourceAttr = regexp.MustCompile(`src\s*=\s*["']([^"']+)["']`)

// RewriteImageSources points every local src attribute in fragment at its
// flat file name. Remote and inline references are left untouched, and
// rewriting an already flat reference is a no-op.
func RewriteImageSources(fragment string) string {
	if !strings.Contains(fragment, "src") {
		return fragment
	}
	return sourceAttr.ReplaceAllStringFunc(fragment, func(match string) string {
		ref := sourceAttr.FindStringSubmatch(match)[1]
		if isExternal(ref) {
			return match
		}
		return `src="` + FlatName(ref) + `"`
	})
}

// FlatName returns the decoded base name of a media reference, dropping any
// directory components and query string. A '#' is kept as part of the name,
// matching the file the copier writes.
func FlatName(ref string) string {
	trimmed := strings.TrimSpace(ref)
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.ReplaceAll(trimmed, `\`, "/")
	if decoded, err := url.PathUnescape(trimmed); err == nil {
		trimmed = decoded
	}
	base := path.Base(trimmed)
	if base == "." || base == "/" || base == "" {
		return ref
	}
	return base
}

func isExternal(ref string) bool {
	lower := strings.ToLower(strings.TrimSpace(ref))
	for _, prefix := range []string{"http://", "https://", "data:", "//", "mailto:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
