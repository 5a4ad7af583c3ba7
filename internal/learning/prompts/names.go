package prompts

type PromptName string

const (
	// Planning + Synthesis
	PromptStrategicPlanner     PromptName = "strategic_planner"
	PromptKnowledgeSynthesizer PromptName = "knowledge_synthesizer"

	// Intent routing
	PromptIntentClassification PromptName = "intent_classification"
)
