package steps

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/yungbote/bookforge-backend/internal/domain"
)

const validBookJSON = `{
  "title": "Python for Educators",
  "introduction": "A teaching-first path into Python.",
  "chapters": [
    {"chapter_number": 1, "title": "Why Python", "summary": "Motivation.", "personalization_rationale": "Connects to teaching background."},
    {"chapter_number": 2, "title": "Syntax Essentials", "summary": "Core syntax.", "personalization_rationale": "Builds shared vocabulary."},
    {"chapter_number": 3, "title": "Classroom Projects", "summary": "Applied exercises.", "personalization_rationale": "Matches hands-on preference."},
    {"chapter_number": 4, "title": "Next Steps", "summary": "Where to go from here.", "personalization_rationale": "Supports the six month goal."}
  ]
}`

func TestSynthesizeHappyPath(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, system, user string) (string, error) {
		return "```json\n" + validBookJSON + "\n```", nil
	})
	s := NewSynthesizer(nil, gen)

	book, fromModel, err := s.Synthesize(context.Background(), plannerAssembler(t, "Python programming"), nil)
	if err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if !fromModel {
		t.Fatalf("expected model-generated structure")
	}
	if len(book.Chapters) != 4 {
		t.Fatalf("expected 4 chapters, got %d", len(book.Chapters))
	}
	for i, ch := range book.Chapters {
		if ch.Number != i+1 {
			t.Fatalf("chapter %d numbered %d", i, ch.Number)
		}
	}
}

func TestSynthesizeAppendsGuidance(t *testing.T) {
	var captured string
	gen := GeneratorFunc(func(ctx context.Context, system, user string) (string, error) {
		captured = user
		return validBookJSON, nil
	})
	s := NewSynthesizer(nil, gen)

	plan := FallbackPlan("Python programming")
	if _, _, err := s.Synthesize(context.Background(), plannerAssembler(t, "Python programming"), &plan); err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if !strings.Contains(captured, "STRATEGIC GUIDANCE") {
		t.Fatalf("prompt should carry the guidance addendum")
	}
	if !strings.Contains(captured, "CRITICAL PRIORITIES") {
		t.Fatalf("guidance should surface critical priorities")
	}
}

func TestSynthesizeFallbackOnError(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, system, user string) (string, error) {
		return "", fmt.Errorf("upstream unavailable")
	})
	s := NewSynthesizer(nil, gen)

	book, fromModel, err := s.Synthesize(context.Background(), plannerAssembler(t, "Go"), nil)
	if err != nil {
		t.Fatalf("generation failure must not escape: %v", err)
	}
	if fromModel {
		t.Fatalf("expected fallback")
	}
	if len(book.Chapters) != 3 {
		t.Fatalf("fallback should have 3 chapters, got %d", len(book.Chapters))
	}
	if book.Title != "Learning Go: A Personalized Guide" {
		t.Fatalf("fallback title mismatch: %q", book.Title)
	}
}

func TestSynthesizePropagatesParentCancellation(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, system, user string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	s := NewSynthesizer(nil, gen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := s.Synthesize(ctx, plannerAssembler(t, "Go"), nil); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFallbackStructureDeterministic(t *testing.T) {
	a := FallbackStructure("Linear Algebra")
	b := FallbackStructure("Linear Algebra")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("fallback structure must be a pure function of the topic")
	}
	if got := FallbackStructure("").Title; got != "Learning Unknown Topic: A Personalized Guide" {
		t.Fatalf("empty topic title mismatch: %q", got)
	}
}

func TestParseBookStructureRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no object", `[1, 2, 3]`},
		{"empty chapters", `{"title": "T", "introduction": "I", "chapters": []}`},
		{"missing introduction", `{"title": "T", "chapters": [{"chapter_number": 1, "title": "A", "summary": "S", "personalization_rationale": "R"}]}`},
		{"out of order numbering", strings.Replace(validBookJSON, `"chapter_number": 2`, `"chapter_number": 3`, 1)},
		{"numbering starts at zero", strings.Replace(validBookJSON, `"chapter_number": 1`, `"chapter_number": 0`, 1)},
		{"missing rationale", `{"title": "T", "introduction": "I", "chapters": [{"chapter_number": 1, "title": "A", "summary": "S"}]}`},
	}
	for _, tc := range cases {
		if _, err := parseBookStructure(tc.raw); err == nil {
			t.Fatalf("%s: expected rejection", tc.name)
		}
	}
}

func TestDeriveGuidance(t *testing.T) {
	plan := domain.ExecutionPlan{AgentPlans: []domain.AgentPlan{
		{
			AgentName:  domain.AgentKnowledgeSynthesizer,
			Activation: true,
			Tasks: []domain.Task{
				{Name: "Cover fundamentals", Priority: domain.PriorityCritical, ExpectedOutcome: "Deep conceptual base", UserResourceConnection: "Lean on the user's textbook"},
				{Name: "Practical applications", Priority: domain.PriorityHigh, ExpectedOutcome: "Portfolio-ready projects", UserResourceConnection: "Build on saved tutorials"},
				{Name: "Advanced outlook", Priority: domain.PriorityMedium, ExpectedOutcome: "Preview of expert topics", UserResourceConnection: "Third connection should be dropped"},
			},
		},
	}}

	got := DeriveGuidance(plan)
	if !strings.Contains(got, "CRITICAL PRIORITIES: Deep conceptual base") {
		t.Fatalf("missing critical line:\n%s", got)
	}
	if !strings.Contains(got, "HIGH PRIORITY TASKS: Portfolio-ready projects") {
		t.Fatalf("missing high priority line:\n%s", got)
	}
	if !strings.Contains(got, "fundamentals") || !strings.Contains(got, "practical_applications") || !strings.Contains(got, "advanced_concepts") {
		t.Fatalf("missing focus areas:\n%s", got)
	}
	if strings.Contains(got, "Third connection should be dropped") {
		t.Fatalf("resource integration should cap at two entries:\n%s", got)
	}
	if !strings.Contains(got, "balanced approach") {
		t.Fatalf("three tasks should yield the balanced quality line:\n%s", got)
	}
}

func TestDeriveGuidanceQualityTiers(t *testing.T) {
	mkPlan := func(n int) domain.ExecutionPlan {
		tasks := make([]domain.Task, n)
		for i := range tasks {
			tasks[i] = domain.Task{Name: fmt.Sprintf("Task %d", i), Priority: domain.PriorityLow}
		}
		return domain.ExecutionPlan{AgentPlans: []domain.AgentPlan{
			{AgentName: domain.AgentKnowledgeSynthesizer, Activation: true, Tasks: tasks},
		}}
	}
	if !strings.Contains(DeriveGuidance(mkPlan(5)), "comprehensive coverage") {
		t.Fatalf("five tasks should yield comprehensive coverage")
	}
	if !strings.Contains(DeriveGuidance(mkPlan(2)), "focused approach") {
		t.Fatalf("two tasks should yield focused approach")
	}
}

func TestDeriveGuidanceWithoutSynthesizerPlan(t *testing.T) {
	got := DeriveGuidance(domain.ExecutionPlan{})
	if !strings.Contains(got, "balanced, personalized table of contents") {
		t.Fatalf("missing generic guidance: %q", got)
	}
}
