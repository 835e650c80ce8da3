package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	a := UUID("qti2tex:test")
	b := UUID("  qti2tex:test ")
	if a == uuid.Nil || a != b {
		t.Fatalf("expected stable non-nil uuid, got %s and %s", a, b)
	}
	if UUID("   ") != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key")
	}
}

func TestQuestionUUID(t *testing.T) {
	first := QuestionUUID("bank/quiz.xml", "q1", 0)
	if first != QuestionUUID("bank/quiz.xml", "q1", 5) {
		t.Fatalf("ident must take precedence over position")
	}
	if first == QuestionUUID("bank/other.xml", "q1", 0) {
		t.Fatalf("documents must scope question ids")
	}
	if QuestionUUID("bank/quiz.xml", "", 1) == QuestionUUID("bank/quiz.xml", "", 2) {
		t.Fatalf("items without ident must be distinguished by position")
	}
	if DocumentUUID("bank/quiz.xml") == first {
		t.Fatalf("document and question ids must not collide")
	}
}
