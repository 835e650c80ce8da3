package identity

import (
	"path/filepath"
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// QuestionUUID identifies an item by the document it came from and its
// ident. Items without an ident fall back to their position in the document.
func QuestionUUID(document, ident string, position int) uuid.UUID {
	doc := filepath.ToSlash(strings.TrimSpace(document))
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return UUID("qti2tex:question:" + doc + ":#" + strconv.Itoa(position))
	}
	return UUID("qti2tex:question:" + doc + ":" + ident)
}

// DocumentUUID identifies an item-bank document by its relative path.
func DocumentUUID(document string) uuid.UUID {
	return UUID("qti2tex:document:" + filepath.ToSlash(strings.TrimSpace(document)))
}
