package domain

import "strings"

// AgentName identifies a downstream research agent the planner can activate.
type AgentName string

const (
	AgentKnowledgeSynthesizer AgentName = "knowledge_synthesizer"
	AgentIntelligenceGatherer AgentName = "intelligence_gatherer"
)

// KnownAgentNames is the closed set of agents an execution plan may address.
func KnownAgentNames() []AgentName {
	return []AgentName{AgentKnowledgeSynthesizer, AgentIntelligenceGatherer}
}

func ParseAgentName(raw string) (AgentName, bool) {
	switch AgentName(strings.TrimSpace(strings.ToLower(raw))) {
	case AgentKnowledgeSynthesizer:
		return AgentKnowledgeSynthesizer, true
	case AgentIntelligenceGatherer:
		return AgentIntelligenceGatherer, true
	default:
		return "", false
	}
}

// TaskPriority orders a planner task.
type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

func ParseTaskPriority(raw string) (TaskPriority, bool) {
	switch TaskPriority(strings.TrimSpace(strings.ToLower(raw))) {
	case PriorityCritical:
		return PriorityCritical, true
	case PriorityHigh:
		return PriorityHigh, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityLow:
		return PriorityLow, true
	default:
		return "", false
	}
}

// TaskStatus is the lifecycle state of a planner task. Plans are created with
// every task pending; later states belong to the downstream agents.
type TaskStatus string

const TaskPending TaskStatus = "pending"

// Task is one prioritized unit of work assigned to an agent.
type Task struct {
	Name                   string       `json:"name"`
	Status                 TaskStatus   `json:"status"`
	Priority               TaskPriority `json:"priority"`
	ExpectedOutcome        string       `json:"expected_outcome"`
	UserResourceConnection string       `json:"user_resource_connection"`
}

// AgentPlan is the planner's decision for a single agent.
type AgentPlan struct {
	AgentName  AgentName `json:"agent_name"`
	Activation bool      `json:"activation"`
	Tasks      []Task    `json:"tasks"`
}

// ExecutionPlan is the Strategic Planner's output: one AgentPlan per known
// agent, with the knowledge synthesizer always activated.
type ExecutionPlan struct {
	PlanID     string      `json:"plan_id"`
	CreatedAt  string      `json:"created_at"`
	AgentPlans []AgentPlan `json:"agent_plans"`
}

// AgentPlanFor returns the plan entry for the named agent, if present.
func (p ExecutionPlan) AgentPlanFor(name AgentName) (AgentPlan, bool) {
	for _, ap := range p.AgentPlans {
		if ap.AgentName == name {
			return ap, true
		}
	}
	return AgentPlan{}, false
}
