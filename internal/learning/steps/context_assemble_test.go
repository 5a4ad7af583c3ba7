package steps

import (
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/bookforge-backend/internal/domain"
)

func TestAssemblePromptBeforeAssemble(t *testing.T) {
	a := NewAssembler(nil)
	if _, err := a.Prompt(ConsumerStrategicPlanner); !errors.Is(err, ErrNotAssembled) {
		t.Fatalf("expected ErrNotAssembled, got %v", err)
	}
}

func TestAssembleUnknownConsumer(t *testing.T) {
	a := NewAssembler(nil)
	a.Assemble(nil, "Go", nil, nil)
	if _, err := a.Prompt(Consumer("quiz_master")); !errors.Is(err, ErrUnknownConsumer) {
		t.Fatalf("expected ErrUnknownConsumer, got %v", err)
	}
}

func TestAssembleNilProfileDefaults(t *testing.T) {
	a := NewAssembler(nil)
	snap := a.Assemble(nil, "Rust programming", nil, nil)
	if !snap.Assembled() {
		t.Fatalf("expected assembled snapshot")
	}
	if snap.Profile.UserID == "" {
		t.Fatalf("default persona should carry a user id")
	}
	if snap.ExistingKnowledge == nil || snap.UserResources == nil {
		t.Fatalf("nil slices should be replaced with empty defaults")
	}
}

func TestTopicOrDefault(t *testing.T) {
	a := NewAssembler(nil)
	a.Assemble(nil, "   ", nil, nil)
	snap, ok := a.Context()
	if !ok {
		t.Fatalf("expected context after assemble")
	}
	if got := snap.TopicOrDefault(); got != "Unknown Topic" {
		t.Fatalf("empty topic should render as Unknown Topic, got %q", got)
	}

	prompt, err := a.Prompt(ConsumerKnowledgeSynthesizer)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	if !strings.Contains(prompt.User, "Unknown Topic") {
		t.Fatalf("synthesis prompt should carry the Unknown Topic placeholder")
	}
}

func TestKnowledgeBridgesThreshold(t *testing.T) {
	expertise := []domain.SkillLevel{
		{Domain: "Marketing", Level: "advanced", Confidence: 8},
		{Domain: "Art", Level: "beginner", Confidence: 3},
	}
	bridges := KnowledgeBridges(expertise, "AI")
	if !strings.Contains(bridges, "Marketing to AI") {
		t.Fatalf("high-confidence domain missing from bridges: %q", bridges)
	}
	if strings.Contains(bridges, "Art to AI") {
		t.Fatalf("low-confidence domain should be excluded: %q", bridges)
	}
}

func TestKnowledgeBridgesDegradeToGeneral(t *testing.T) {
	expertise := []domain.SkillLevel{
		{Domain: "Knitting", Level: "beginner", Confidence: 2},
	}
	if got := KnowledgeBridges(expertise, "Go"); got != "General knowledge to Go" {
		t.Fatalf("expected general bridge, got %q", got)
	}
	if got := KnowledgeBridges(nil, "Go"); got != "General knowledge to Go" {
		t.Fatalf("expected general bridge for empty expertise, got %q", got)
	}
}

func TestPromptInputFormatting(t *testing.T) {
	persona := domain.UserPersona{
		UserID: "u_1",
		Expertise: []domain.SkillLevel{
			{Domain: "Python", Level: "intermediate", Confidence: 7},
		},
		Preferences:   []string{"hands-on examples", "hands-on examples", "short chapters"},
		KnowledgeGaps: []string{"concurrency"},
	}
	a := NewAssembler(nil)
	snap := a.Assemble(&persona, "Go",
		[]domain.BookSummary{{Title: "Intro to Go", Topic: "Go", Summary: "basics"}},
		[]domain.Resource{{Title: "Effective Go", Type: "article"}},
	)

	in, err := PromptInput(snap, ConsumerKnowledgeSynthesizer)
	if err != nil {
		t.Fatalf("prompt input: %v", err)
	}
	if in.CurrentExpertise != "Python: intermediate (confidence 7/10)" {
		t.Fatalf("expertise summary mismatch: %q", in.CurrentExpertise)
	}
	if in.LearningPreferences != "hands-on examples, short chapters" {
		t.Fatalf("preferences should dedupe: %q", in.LearningPreferences)
	}
	if in.UserResources != "Effective Go (article)" {
		t.Fatalf("resource list mismatch: %q", in.UserResources)
	}
	if in.ExistingKnowledge != "'Intro to Go' (Topic: Go) - basics" {
		t.Fatalf("existing knowledge mismatch: %q", in.ExistingKnowledge)
	}
	if in.GoalsTimeline != "learn Go effectively, 6 months" {
		t.Fatalf("goals timeline default mismatch: %q", in.GoalsTimeline)
	}
}

func TestPromptInputEmptyCollections(t *testing.T) {
	a := NewAssembler(nil)
	snap := a.Assemble(&domain.UserPersona{UserID: "u_2"}, "Go", nil, nil)

	in, err := PromptInput(snap, ConsumerKnowledgeSynthesizer)
	if err != nil {
		t.Fatalf("prompt input: %v", err)
	}
	if in.UserResources != "None provided" {
		t.Fatalf("empty resources placeholder mismatch: %q", in.UserResources)
	}
	if in.ExistingKnowledge != "No prior books found on this topic." {
		t.Fatalf("empty knowledge placeholder mismatch: %q", in.ExistingKnowledge)
	}
	if in.CurrentExpertise != "no recorded expertise" {
		t.Fatalf("empty expertise placeholder mismatch: %q", in.CurrentExpertise)
	}
}
