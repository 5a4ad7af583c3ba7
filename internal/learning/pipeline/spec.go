package pipeline

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/bookforge-backend/internal/platform/logger"
)

const tocBuildPipelineEnv = "TOC_BUILD_PIPELINE_YAML"

//go:embed toc_build.yaml
var tocBuildSpecFS embed.FS

// fallback stage order used when YAML is missing or invalid
var fallbackStageOrder = []string{
	"profile_load",
	"intent_classify",
	"context_assemble",
	"strategic_plan",
	"knowledge_synthesize",
	"collab_review",
	"draft_assemble",
}

var fallbackPlanOnlyOrder = []string{
	"profile_load",
	"intent_classify",
	"context_assemble",
	"strategic_plan",
}

var fallbackStageDeps = map[string][]string{
	"intent_classify":      {"profile_load"},
	"context_assemble":     {"profile_load", "intent_classify"},
	"strategic_plan":       {"context_assemble"},
	"knowledge_synthesize": {"context_assemble", "strategic_plan"},
	"collab_review":        {"knowledge_synthesize"},
	"draft_assemble":       {"collab_review"},
}

type yamlPipelineSpec struct {
	Pipeline string                 `yaml:"pipeline"`
	Version  int                    `yaml:"version"`
	Stages   []yamlStageSpec        `yaml:"stages"`
	Variants map[string]yamlVariant `yaml:"variants"`
}

type yamlStageSpec struct {
	Name      string         `yaml:"name"`
	DependsOn []string       `yaml:"depends_on"`
	Enabled   *bool          `yaml:"enabled"`
	Config    map[string]any `yaml:"config"`
}

type yamlVariant struct {
	Stages []string `yaml:"stages"`
}

type pipelineRuntime struct {
	StageOrder []string
	PlanOnly   []string
	Stages     map[string]yamlStageSpec
}

var runtimeOnce sync.Once
var runtimeCache *pipelineRuntime
var runtimeErr error

func currentPipelineRuntime(log *logger.Logger) *pipelineRuntime {
	runtimeOnce.Do(func() {
		runtimeCache, runtimeErr = loadPipelineRuntime()
	})
	if runtimeErr != nil {
		if log != nil {
			log.Warn("toc_build: pipeline spec load failed; using fallback", "error", runtimeErr)
		}
		return nil
	}
	return runtimeCache
}

// StageOrder returns the enabled stages in execution order.
func StageOrder(log *logger.Logger) []string {
	if rt := currentPipelineRuntime(log); rt != nil && len(rt.StageOrder) > 0 {
		return rt.StageOrder
	}
	return fallbackStageOrder
}

// PlanOnlyOrder returns the stages of the plan_only variant, used when only
// the execution plan is wanted (no synthesis).
func PlanOnlyOrder(log *logger.Logger) []string {
	if rt := currentPipelineRuntime(log); rt != nil && len(rt.PlanOnly) > 0 {
		return rt.PlanOnly
	}
	return fallbackPlanOnlyOrder
}

// StageSpec returns the YAML config for a stage, if the spec defines one.
func StageSpec(log *logger.Logger, name string) (map[string]any, bool) {
	if rt := currentPipelineRuntime(log); rt != nil {
		if spec, ok := rt.Stages[name]; ok {
			return spec.Config, true
		}
	}
	return nil, false
}

// StageDeps returns the declared dependencies of a stage.
func StageDeps(log *logger.Logger, name string) []string {
	if rt := currentPipelineRuntime(log); rt != nil {
		if spec, ok := rt.Stages[name]; ok {
			return spec.DependsOn
		}
	}
	if deps, ok := fallbackStageDeps[name]; ok {
		return deps
	}
	return nil
}

func loadPipelineRuntime() (*pipelineRuntime, error) {
	data, err := readTocBuildSpec()
	if err != nil {
		return nil, err
	}

	var spec yamlPipelineSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if err := validatePipelineSpec(&spec); err != nil {
		return nil, err
	}

	order := make([]string, 0, len(spec.Stages))
	stages := make(map[string]yamlStageSpec, len(spec.Stages))
	for _, stage := range spec.Stages {
		if stage.Name == "" {
			continue
		}
		if stage.Enabled != nil && !*stage.Enabled {
			continue
		}
		stage.DependsOn = dedupeStrings(stage.DependsOn)
		order = append(order, stage.Name)
		stages[stage.Name] = stage
	}

	planOnly := []string{}
	if v, ok := spec.Variants["plan_only"]; ok {
		for _, name := range v.Stages {
			if _, ok := stages[name]; ok {
				planOnly = append(planOnly, name)
			}
		}
	}

	return &pipelineRuntime{
		StageOrder: order,
		PlanOnly:   planOnly,
		Stages:     stages,
	}, nil
}

func readTocBuildSpec() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(tocBuildPipelineEnv)); path != "" {
		return os.ReadFile(path)
	}
	return tocBuildSpecFS.ReadFile("toc_build.yaml")
}

func validatePipelineSpec(spec *yamlPipelineSpec) error {
	if spec == nil {
		return errors.New("missing spec")
	}
	if strings.TrimSpace(spec.Pipeline) != "toc_build" {
		return fmt.Errorf("unexpected pipeline: %s", spec.Pipeline)
	}
	if len(spec.Stages) == 0 {
		return errors.New("no stages defined")
	}

	enabled := map[string]bool{}
	order := make([]string, 0, len(spec.Stages))
	for _, stage := range spec.Stages {
		name := strings.TrimSpace(stage.Name)
		if name == "" {
			return errors.New("stage name is required")
		}
		if _, exists := enabled[name]; exists {
			return fmt.Errorf("duplicate stage name: %s", name)
		}
		if stage.Enabled != nil && !*stage.Enabled {
			continue
		}
		enabled[name] = true
		order = append(order, name)
	}

	orderIndex := map[string]int{}
	for i, name := range order {
		orderIndex[name] = i
	}

	for _, stage := range spec.Stages {
		name := strings.TrimSpace(stage.Name)
		if name == "" {
			continue
		}
		if stage.Enabled != nil && !*stage.Enabled {
			continue
		}
		for _, dep := range stage.DependsOn {
			dep = strings.TrimSpace(dep)
			if dep == "" {
				continue
			}
			if !enabled[dep] {
				return fmt.Errorf("stage %s: unknown dependency %s", name, dep)
			}
			if orderIndex[dep] > orderIndex[name] {
				return fmt.Errorf("stage %s: dependency %s appears after stage in order", name, dep)
			}
		}
	}

	for key, variant := range spec.Variants {
		if strings.TrimSpace(key) == "" {
			return errors.New("variant name is required")
		}
		seen := map[string]bool{}
		for _, name := range variant.Stages {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !enabled[name] {
				return fmt.Errorf("variant %s: unknown stage %s", key, name)
			}
			if seen[name] {
				return fmt.Errorf("variant %s: duplicate stage %s", key, name)
			}
			seen[name] = true
		}
	}

	return nil
}

func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
