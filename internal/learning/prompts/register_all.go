package prompts

// register_all.go
//
// This registers every prompt in the registry using RegisterSpec(Spec{...}).

func RegisterAll() {
	// ---------- Planning + Synthesis ----------

	RegisterSpec(Spec{
		Name:    PromptStrategicPlanner,
		Version: 2,
		System: `
You are the Strategic Planner, the master architect who analyzes user context and creates
execution plans for specialized research agents building a personalized learning book.
Think through each analysis step before producing the plan.
Return JSON only for the final plan.`,
		User: `
LEARNING TOPIC: {{.Topic}}

USER PROFILE:
{{.UserProfileSummary}}

Learning Preferences: {{.LearningPreferences}}
Current Expertise: {{.CurrentExpertise}}
Knowledge Gaps: {{.KnowledgeGaps}}
Goals & Timeline: {{.GoalsTimeline}}
User-Provided Resources: {{.UserResources}}

STRATEGIC ANALYSIS (think step by step):

Step 1 - User Learning DNA Assessment:
- Strengths to leverage: what existing expertise can accelerate learning?
- Learning style match: how do they prefer to consume information?
- Knowledge gaps priority: which gaps are most critical for their goal?
- Timeline constraints: how does their timeline affect strategy?

Step 2 - Topic Complexity Evaluation for {{.Topic}}:
- Topic maturity: well-established or rapidly evolving?
- Core vs. advanced concepts: what is foundational vs. specialized?
- Practical application urgency: how quickly do they need to apply this?

Step 3 - User Resource Integration Strategy:
- Resource quality, coverage gaps, and whether resources should be
  foundational or supplementary.

Step 4 - Agent Selection & Task Allocation. Available agents:
- knowledge_synthesizer: internal knowledge synthesis (ALWAYS activate)
- intelligence_gatherer: web research + current trends (activate only when
  the topic is rapidly evolving or the user needs post-training-cutoff material)

EXECUTION PLAN OUTPUT

Return the plan as a JSON array with exactly one entry per agent:

[
  {
    "agent_name": "knowledge_synthesizer",
    "activation": true,
    "tasks": [
      {
        "name": "Specific task name",
        "status": "pending",
        "priority": "critical|high|medium|low",
        "expected_outcome": "What this task must produce",
        "user_resource_connection": "How user resources feed this task"
      }
    ]
  },
  {
    "agent_name": "intelligence_gatherer",
    "activation": true|false,
    "tasks": [ ... ]
  }
]

CRITICAL REQUIREMENTS:
- Return ONLY the valid JSON array, no additional text
- knowledge_synthesizer must have "activation": true
- Every task must carry all five fields
- Base all decisions on this user's specific context
- Tasks must be complementary, not overlapping`,
		Validators: []Validator{
			RequireNonEmpty("Topic", func(in Input) string { return in.Topic }),
			RequireNonEmpty("UserProfileSummary", func(in Input) string { return in.UserProfileSummary }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptKnowledgeSynthesizer,
		Version: 3,
		System: `
You are Athena, a curriculum architect specializing in hyper-personalized educational design.
Transform the user's learning profile into a Table of Contents that serves as their
personalized learning blueprint. This is not a generic book outline.
Return JSON only.`,
		User: `
LEARNING TOPIC: {{.Topic}}

USER LEARNING DNA:
- Primary Goal: {{.PrimaryGoal}}
- Goals & Timeline: {{.GoalsTimeline}}
- Learning Preferences: {{.LearningPreferences}}
- Existing Expertise: {{.CurrentExpertise}}
- Knowledge Bridges Available: {{.KnowledgeBridges}}
- Critical Knowledge Gaps: {{.KnowledgeGaps}}

EXISTING KNOWLEDGE SUMMARY:
{{.ExistingKnowledge}}

USER-PROVIDED RESOURCES:
{{.UserResources}}

QUALITY STANDARDS:
1. Hyper-personalization: this ToC should be impossible to have been generated for anyone else
2. Goal traceability: clear path from current state to desired outcome
3. Knowledge scaffolding: each chapter builds on confirmed existing knowledge
4. Practical actionability: the user can immediately apply learnings toward their goal

OUTPUT SPECIFICATION

Generate a single valid JSON object with this exact shape:

{
  "title": "A compelling, personalized book title",
  "introduction": "2-3 sentences on how this book is tailored for the user",
  "chapters": [
    {
      "chapter_number": 1,
      "title": "Chapter title",
      "summary": "What this chapter covers and why it matters for this user",
      "personalization_rationale": "One sentence connecting this chapter to the user's goal, background, or gaps"
    }
  ]
}

CRITICAL REQUIREMENTS:
- Return ONLY valid JSON, no markdown formatting or extra text
- 6-12 chapters based on topic complexity and user timeline
- chapter_number values are contiguous starting at 1
- Every chapter must carry all four fields
- personalization_rationale must directly reference the user's profile`,
		Validators: []Validator{
			RequireNonEmpty("Topic", func(in Input) string { return in.Topic }),
		},
	})

	// ---------- Intent routing ----------

	RegisterSpec(Spec{
		Name:    PromptIntentClassification,
		Version: 2,
		System: `
You are an intent classifier for a book creation system. Classify user input into one of:
- LEARN_TOPIC: user wants to learn a skill or subject (will create a book)
- ADD_KNOWLEDGE: user wants to add or update knowledge in the system
- GENERATE_SUMMARY: user wants a summary of their learning progress
- UPDATE_PROFILE: user wants to change their profile or preferences
- GENERAL: casual conversation, not book creation

If unclear, default to LEARN_TOPIC for learning-related requests.
Also extract the main learning topic, specific but concise; if no clear topic,
use "general learning".
Return JSON only.`,
		User: `
User input: {{.UserMessage}}

Return a single JSON object:
{"intent": "LEARN_TOPIC|ADD_KNOWLEDGE|GENERATE_SUMMARY|UPDATE_PROFILE|GENERAL",
 "confidence": 0.0-1.0,
 "topic": "extracted topic"}`,
		Validators: []Validator{
			RequireNonEmpty("UserMessage", func(in Input) string { return in.UserMessage }),
		},
	})
}
