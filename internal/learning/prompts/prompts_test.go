package prompts

import (
	"os"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	RegisterAll()
	os.Exit(m.Run())
}

func TestBuildStrategicPlanner(t *testing.T) {
	in := Input{
		Topic:               "Go",
		UserProfileSummary:  "Experienced teacher moving into software.",
		LearningPreferences: "hands-on examples",
		CurrentExpertise:    "Teaching: advanced (confidence 8/10)",
		KnowledgeGaps:       "concurrency",
		GoalsTimeline:       "ship a service, 3 months",
		UserResources:       "Effective Go (article)",
	}
	p, err := Build(PromptStrategicPlanner, in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if p.Name != string(PromptStrategicPlanner) || p.Version != 2 {
		t.Fatalf("prompt identity mismatch: %s v%d", p.Name, p.Version)
	}
	for _, want := range []string{
		"LEARNING TOPIC: Go",
		"Experienced teacher moving into software.",
		"Knowledge Gaps: concurrency",
		"Effective Go (article)",
		`"agent_name": "knowledge_synthesizer"`,
	} {
		if !strings.Contains(p.User, want) {
			t.Fatalf("rendered prompt missing %q", want)
		}
	}
	if strings.Contains(p.User, "{{") {
		t.Fatalf("unexpanded template action in prompt:\n%s", p.User)
	}
}

func TestBuildValidatorRejectsEmptyTopic(t *testing.T) {
	_, err := Build(PromptStrategicPlanner, Input{UserProfileSummary: "x"})
	if err == nil || !strings.Contains(err.Error(), "Topic") {
		t.Fatalf("expected Topic validation error, got %v", err)
	}
}

func TestBuildUnknownPrompt(t *testing.T) {
	if _, err := Build(PromptName("nonexistent"), Input{}); err == nil {
		t.Fatalf("expected error for unregistered prompt")
	}
}

func TestFingerprintStable(t *testing.T) {
	in := Input{UserMessage: "I want to learn Go"}
	a, err := Build(PromptIntentClassification, in)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	b, _ := Build(PromptIntentClassification, in)
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatalf("fingerprint must be deterministic")
	}

	c, _ := Build(PromptIntentClassification, Input{UserMessage: "teach me Rust"})
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatalf("different inputs must fingerprint differently")
	}
}

func TestSynthesizerPromptCarriesLearningDNA(t *testing.T) {
	p, err := Build(PromptKnowledgeSynthesizer, Input{
		Topic:            "AI",
		PrimaryGoal:      "transition into AI product management",
		KnowledgeBridges: "Marketing to AI",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(p.User, "Knowledge Bridges Available: Marketing to AI") {
		t.Fatalf("bridges missing from prompt:\n%s", p.User)
	}
	if !strings.Contains(p.System, "Athena") {
		t.Fatalf("system prompt mismatch")
	}
}
