package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/bookforge-backend/internal/domain"
	"github.com/yungbote/bookforge-backend/internal/observability"
	"github.com/yungbote/bookforge-backend/internal/platform/envutil"
	"github.com/yungbote/bookforge-backend/internal/platform/logger"
)

// Planner turns the assembled context into an execution plan for the
// downstream research agents. Generation, parse, or validation failure never
// escapes: the caller always receives a structurally valid plan, falling back
// to a deterministic topic-templated one with success=false.
type Planner struct {
	log     *logger.Logger
	gen     TextGenerator
	timeout time.Duration
}

func NewPlanner(log *logger.Logger, gen TextGenerator) *Planner {
	if log == nil {
		log = logger.NewNop()
	}
	return &Planner{
		log:     log.With("service", "StrategicPlanner"),
		gen:     gen,
		timeout: envutil.Duration("PLANNER_TIMEOUT", 120*time.Second),
	}
}

// Plan runs one generation call and parses/validates the response into an
// ExecutionPlan. The returned error is non-nil only for programmer errors
// (unassembled context) or parent-context cancellation; every generation-side
// failure resolves to the fallback plan with success=false.
func (p *Planner) Plan(ctx context.Context, asm *Assembler) (domain.ExecutionPlan, bool, error) {
	prompt, err := asm.Prompt(ConsumerStrategicPlanner)
	if err != nil {
		return domain.ExecutionPlan{}, false, err
	}
	snapshot, _ := asm.Context()
	topic := snapshot.TopicOrDefault()

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, genErr := p.gen.GenerateText(callCtx, prompt.System, prompt.User)
	if genErr != nil {
		if ctx.Err() != nil {
			// The whole request is being abandoned; don't mask it with a fallback.
			return domain.ExecutionPlan{}, false, ctx.Err()
		}
		return p.fallback(topic, "generation_error", genErr), false, nil
	}

	plan, parseErr := parseExecutionPlan(raw)
	if parseErr != nil {
		return p.fallback(topic, "parse_or_validate", parseErr), false, nil
	}

	plan.PlanID = uuid.NewString()
	plan.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	p.log.Info("execution plan generated",
		"plan_id", plan.PlanID,
		"prompt_fingerprint", prompt.Fingerprint(),
		"agents", len(plan.AgentPlans),
	)
	return plan, true, nil
}

func (p *Planner) fallback(topic, reason string, cause error) domain.ExecutionPlan {
	p.log.Warn("planner falling back to deterministic plan",
		"reason", reason,
		"error", cause,
		"topic", topic,
	)
	if m := observability.Current(); m != nil {
		m.IncFallback("strategic_plan", reason)
	}
	return FallbackPlan(topic)
}

// FallbackPlan is the deterministic plan used when generation or validation
// fails. It is a pure function of the topic string.
func FallbackPlan(topic string) domain.ExecutionPlan {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = unknownTopic
	}
	return domain.ExecutionPlan{
		PlanID: "fallback_plan_" + slugify(topic),
		AgentPlans: []domain.AgentPlan{
			{
				AgentName:  domain.AgentKnowledgeSynthesizer,
				Activation: true,
				Tasks: []domain.Task{
					{
						Name:                   fmt.Sprintf("Synthesize fundamental knowledge for %s", topic),
						Status:                 domain.TaskPending,
						Priority:               domain.PriorityCritical,
						ExpectedOutcome:        fmt.Sprintf("Comprehensive coverage of %s fundamentals", topic),
						UserResourceConnection: "Ground chapters in any user-provided resources",
					},
					{
						Name:                   fmt.Sprintf("Develop practical applications of %s", topic),
						Status:                 domain.TaskPending,
						Priority:               domain.PriorityHigh,
						ExpectedOutcome:        fmt.Sprintf("Actionable guidance for applying %s", topic),
						UserResourceConnection: "Connect exercises to the user's stated goal",
					},
					{
						Name:                   fmt.Sprintf("Outline advanced concepts in %s", topic),
						Status:                 domain.TaskPending,
						Priority:               domain.PriorityMedium,
						ExpectedOutcome:        fmt.Sprintf("Roadmap of advanced %s topics for later chapters", topic),
						UserResourceConnection: "Reference supplementary user materials where relevant",
					},
				},
			},
			{
				AgentName:  domain.AgentIntelligenceGatherer,
				Activation: false,
				Tasks: []domain.Task{
					{
						Name:                   fmt.Sprintf("Placeholder web research for %s", topic),
						Status:                 domain.TaskPending,
						Priority:               domain.PriorityLow,
						ExpectedOutcome:        "Not activated in fallback mode",
						UserResourceConnection: "None",
					},
				},
			},
		},
	}
}

type taskWire struct {
	Name                   *string `json:"name"`
	Status                 *string `json:"status"`
	Priority               *string `json:"priority"`
	ExpectedOutcome        *string `json:"expected_outcome"`
	UserResourceConnection *string `json:"user_resource_connection"`
}

type agentPlanWire struct {
	AgentName  *string     `json:"agent_name"`
	Activation *bool       `json:"activation"`
	Tasks      *[]taskWire `json:"tasks"`
}

// parseExecutionPlan decodes and validates a raw model response into an
// ExecutionPlan. Pointer wire fields distinguish missing JSON keys from
// zero values.
func parseExecutionPlan(raw string) (domain.ExecutionPlan, error) {
	body := stripCodeFences(raw)
	sliced, ok := sliceJSONArray(body)
	if !ok {
		return domain.ExecutionPlan{}, fmt.Errorf("no JSON array found in response")
	}

	var wires []agentPlanWire
	if err := json.Unmarshal([]byte(sliced), &wires); err != nil {
		return domain.ExecutionPlan{}, fmt.Errorf("decode agent plans: %w", err)
	}
	if len(wires) == 0 {
		return domain.ExecutionPlan{}, fmt.Errorf("empty agent plan array")
	}

	seen := map[domain.AgentName]bool{}
	agentPlans := make([]domain.AgentPlan, 0, len(wires))
	for i, w := range wires {
		if w.AgentName == nil {
			return domain.ExecutionPlan{}, fmt.Errorf("agent plan %d: missing agent_name", i)
		}
		name, ok := domain.ParseAgentName(*w.AgentName)
		if !ok {
			return domain.ExecutionPlan{}, fmt.Errorf("agent plan %d: unknown agent %q", i, *w.AgentName)
		}
		if seen[name] {
			return domain.ExecutionPlan{}, fmt.Errorf("duplicate agent plan for %s", name)
		}
		seen[name] = true
		if w.Activation == nil {
			return domain.ExecutionPlan{}, fmt.Errorf("agent plan %s: missing activation", name)
		}
		if w.Tasks == nil {
			return domain.ExecutionPlan{}, fmt.Errorf("agent plan %s: missing tasks", name)
		}

		tasks := make([]domain.Task, 0, len(*w.Tasks))
		for j, t := range *w.Tasks {
			task, err := parseTask(t)
			if err != nil {
				return domain.ExecutionPlan{}, fmt.Errorf("agent plan %s task %d: %w", name, j, err)
			}
			tasks = append(tasks, task)
		}
		agentPlans = append(agentPlans, domain.AgentPlan{
			AgentName:  name,
			Activation: *w.Activation,
			Tasks:      tasks,
		})
	}

	for _, name := range domain.KnownAgentNames() {
		if !seen[name] {
			return domain.ExecutionPlan{}, fmt.Errorf("missing agent plan for %s", name)
		}
	}

	plan := domain.ExecutionPlan{AgentPlans: agentPlans}
	ks, _ := plan.AgentPlanFor(domain.AgentKnowledgeSynthesizer)
	if !ks.Activation {
		return domain.ExecutionPlan{}, fmt.Errorf("knowledge_synthesizer must be activated")
	}
	return plan, nil
}

func parseTask(w taskWire) (domain.Task, error) {
	if w.Name == nil || strings.TrimSpace(*w.Name) == "" {
		return domain.Task{}, fmt.Errorf("missing name")
	}
	if w.Status == nil {
		return domain.Task{}, fmt.Errorf("missing status")
	}
	if !strings.EqualFold(strings.TrimSpace(*w.Status), string(domain.TaskPending)) {
		return domain.Task{}, fmt.Errorf("unexpected status %q", *w.Status)
	}
	if w.Priority == nil {
		return domain.Task{}, fmt.Errorf("missing priority")
	}
	priority, ok := domain.ParseTaskPriority(*w.Priority)
	if !ok {
		return domain.Task{}, fmt.Errorf("invalid priority %q", *w.Priority)
	}
	if w.ExpectedOutcome == nil {
		return domain.Task{}, fmt.Errorf("missing expected_outcome")
	}
	if w.UserResourceConnection == nil {
		return domain.Task{}, fmt.Errorf("missing user_resource_connection")
	}
	return domain.Task{
		Name:                   strings.TrimSpace(*w.Name),
		Status:                 domain.TaskPending,
		Priority:               priority,
		ExpectedOutcome:        strings.TrimSpace(*w.ExpectedOutcome),
		UserResourceConnection: strings.TrimSpace(*w.UserResourceConnection),
	}, nil
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "topic"
	}
	return out
}
