package prompts

// Input is a superset of all fields any prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Topic + profile context
	Topic               string
	UserProfileSummary  string
	LearningPreferences string
	CurrentExpertise    string
	KnowledgeGaps       string
	GoalsTimeline       string
	UserResources       string

	// Synthesis-only context
	PrimaryGoal       string
	KnowledgeBridges  string
	ExistingKnowledge string

	// Intent routing
	UserMessage string
}
