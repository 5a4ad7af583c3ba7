package steps

import (
	"strings"
	"testing"
)

func TestAssembleDraft(t *testing.T) {
	book := FallbackStructure("Go")
	draft := AssembleDraft(book)

	if !strings.HasPrefix(draft, "# Learning Go: A Personalized Guide\n") {
		t.Fatalf("draft missing title heading:\n%s", draft)
	}
	for _, want := range []string{
		"## Chapter 1: Introduction to Go",
		"## Chapter 2: Core Concepts in Go",
		"## Chapter 3: Practical Applications of Go",
		"_Why this chapter:",
	} {
		if !strings.Contains(draft, want) {
			t.Fatalf("draft missing %q:\n%s", want, draft)
		}
	}
}

func TestCollabReviewApproves(t *testing.T) {
	book := FallbackStructure("Go")
	review := NewCollabReviewer().Review(book)
	if !review.Approved {
		t.Fatalf("reviewer should approve")
	}
	if review.Feedback == "" {
		t.Fatalf("reviewer should return feedback")
	}
	if len(review.Structure.Chapters) != len(book.Chapters) {
		t.Fatalf("reviewer must pass the structure through unchanged")
	}
}

func TestStripCodeFences(t *testing.T) {
	fenced := "```json\n{\"a\": 1}\n```"
	if got := stripCodeFences(fenced); got != `{"a": 1}` {
		t.Fatalf("fence strip mismatch: %q", got)
	}
	plain := `{"a": 1}`
	if got := stripCodeFences(plain); got != plain {
		t.Fatalf("unfenced input should pass through: %q", got)
	}
}

func TestSliceJSON(t *testing.T) {
	if got, ok := sliceJSONArray("noise [1, 2] more noise"); !ok || got != "[1, 2]" {
		t.Fatalf("array slice mismatch: %q %v", got, ok)
	}
	if _, ok := sliceJSONArray("no array here"); ok {
		t.Fatalf("expected no array")
	}
	if got, ok := sliceJSONObject(`prefix {"a": 1} suffix`); !ok || got != `{"a": 1}` {
		t.Fatalf("object slice mismatch: %q %v", got, ok)
	}
}
