package intent

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/yungbote/bookforge-backend/internal/domain"
	"github.com/yungbote/bookforge-backend/internal/learning/prompts"
)

func TestMain(m *testing.M) {
	prompts.RegisterAll()
	os.Exit(m.Run())
}

type genFunc func(ctx context.Context, system, user string) (string, error)

func (f genFunc) GenerateText(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func TestClassifyJSONResponse(t *testing.T) {
	c := NewClassifier(nil, genFunc(func(ctx context.Context, system, user string) (string, error) {
		return `Here you go: {"intent": "LEARN_TOPIC", "confidence": 0.92, "topic": "Rust programming"}`, nil
	}))

	got := c.Classify(context.Background(), "teach me Rust")
	if got.Intent != domain.IntentLearnTopic {
		t.Fatalf("intent mismatch: %s", got.Intent)
	}
	if got.Confidence != 0.92 {
		t.Fatalf("confidence mismatch: %v", got.Confidence)
	}
	if got.Topic != "Rust programming" {
		t.Fatalf("topic mismatch: %q", got.Topic)
	}
}

func TestClassifyBareEnumResponse(t *testing.T) {
	c := NewClassifier(nil, genFunc(func(ctx context.Context, system, user string) (string, error) {
		return "GENERATE_SUMMARY", nil
	}))

	got := c.Classify(context.Background(), "show me my progress summary")
	if got.Intent != domain.IntentGenerateSummary {
		t.Fatalf("intent mismatch: %s", got.Intent)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("bare enum should get default confidence, got %v", got.Confidence)
	}
}

func TestClassifyConfidenceClamped(t *testing.T) {
	c := NewClassifier(nil, genFunc(func(ctx context.Context, system, user string) (string, error) {
		return `{"intent": "GENERAL", "confidence": 7.5}`, nil
	}))
	if got := c.Classify(context.Background(), "hello there"); got.Confidence != 1 {
		t.Fatalf("confidence should clamp to 1, got %v", got.Confidence)
	}
}

func TestClassifyKeywordFallbackOnError(t *testing.T) {
	c := NewClassifier(nil, genFunc(func(ctx context.Context, system, user string) (string, error) {
		return "", fmt.Errorf("upstream unavailable")
	}))

	got := c.Classify(context.Background(), "I want to learn about machine learning")
	if got.Intent != domain.IntentLearnTopic {
		t.Fatalf("keyword fallback intent mismatch: %s", got.Intent)
	}
	if got.Topic != "machine learning" {
		t.Fatalf("heuristic topic mismatch: %q", got.Topic)
	}
}

func TestClassifyKeywordFallbackOnGarbage(t *testing.T) {
	c := NewClassifier(nil, genFunc(func(ctx context.Context, system, user string) (string, error) {
		return "I'm not sure what you mean.", nil
	}))

	if got := c.Classify(context.Background(), "change my profile settings"); got.Intent != domain.IntentUpdateProfile {
		t.Fatalf("expected profile update fallback, got %s", got.Intent)
	}
}

func TestClassifyEmptyMessage(t *testing.T) {
	c := NewClassifier(nil, genFunc(func(ctx context.Context, system, user string) (string, error) {
		t.Fatal("generator must not be called for empty input")
		return "", nil
	}))

	got := c.Classify(context.Background(), "   ")
	if got.Intent != domain.IntentUnknown || got.Confidence != 0 {
		t.Fatalf("empty message should classify as unknown: %+v", got)
	}
}
