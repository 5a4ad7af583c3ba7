package pipeline

import (
	"reflect"
	"strings"
	"testing"
)

func TestStageOrderFromEmbeddedSpec(t *testing.T) {
	want := []string{
		"profile_load",
		"intent_classify",
		"context_assemble",
		"strategic_plan",
		"knowledge_synthesize",
		"collab_review",
		"draft_assemble",
	}
	if got := StageOrder(nil); !reflect.DeepEqual(got, want) {
		t.Fatalf("stage order mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestPlanOnlyVariant(t *testing.T) {
	want := []string{"profile_load", "intent_classify", "context_assemble", "strategic_plan"}
	if got := PlanOnlyOrder(nil); !reflect.DeepEqual(got, want) {
		t.Fatalf("plan_only variant mismatch:\n got %v\nwant %v", got, want)
	}
}

func TestStageDeps(t *testing.T) {
	deps := StageDeps(nil, "knowledge_synthesize")
	if !reflect.DeepEqual(deps, []string{"context_assemble", "strategic_plan"}) {
		t.Fatalf("deps mismatch: %v", deps)
	}
	if deps := StageDeps(nil, "profile_load"); len(deps) != 0 {
		t.Fatalf("first stage must have no deps: %v", deps)
	}
	if deps := StageDeps(nil, "nonexistent"); deps != nil {
		t.Fatalf("unknown stage should have nil deps: %v", deps)
	}
}

func TestValidatePipelineSpec(t *testing.T) {
	base := func() *yamlPipelineSpec {
		return &yamlPipelineSpec{
			Pipeline: "toc_build",
			Version:  1,
			Stages: []yamlStageSpec{
				{Name: "a"},
				{Name: "b", DependsOn: []string{"a"}},
			},
		}
	}

	if err := validatePipelineSpec(base()); err != nil {
		t.Fatalf("valid spec rejected: %v", err)
	}

	s := base()
	s.Pipeline = "other"
	if err := validatePipelineSpec(s); err == nil || !strings.Contains(err.Error(), "unexpected pipeline") {
		t.Fatalf("expected pipeline name rejection, got %v", err)
	}

	s = base()
	s.Stages = append(s.Stages, yamlStageSpec{Name: "a"})
	if err := validatePipelineSpec(s); err == nil || !strings.Contains(err.Error(), "duplicate stage") {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	s = base()
	s.Stages[1].DependsOn = []string{"missing"}
	if err := validatePipelineSpec(s); err == nil || !strings.Contains(err.Error(), "unknown dependency") {
		t.Fatalf("expected unknown dep rejection, got %v", err)
	}

	s = base()
	s.Stages[0].DependsOn = []string{"b"}
	if err := validatePipelineSpec(s); err == nil || !strings.Contains(err.Error(), "appears after") {
		t.Fatalf("expected ordering rejection, got %v", err)
	}

	s = base()
	s.Variants = map[string]yamlVariant{"fast": {Stages: []string{"missing"}}}
	if err := validatePipelineSpec(s); err == nil || !strings.Contains(err.Error(), "unknown stage") {
		t.Fatalf("expected variant rejection, got %v", err)
	}
}
