package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/bookforge-backend/internal/domain"
)

// Source supplies the persona a request runs against. A nil persona from a
// source means "no stored profile"; callers substitute DefaultPersona.
type Source interface {
	Load(ctx context.Context, userID string) (*domain.UserPersona, error)
}

// StaticSource serves a fixed sample persona for every user id. It stands in
// for the real profile store during local runs and tests.
type StaticSource struct{}

func NewStaticSource() *StaticSource { return &StaticSource{} }

func (s *StaticSource) Load(ctx context.Context, userID string) (*domain.UserPersona, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := SamplePersona()
	if strings.TrimSpace(userID) != "" {
		p.UserID = strings.TrimSpace(userID)
	}
	return &p, nil
}

// DefaultPersona synthesizes a minimal persona for requests with no stored
// profile. It is derived only from the topic so downstream fallbacks stay
// deterministic.
func DefaultPersona(topic string) domain.UserPersona {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "general learning"
	}
	now := time.Now().UTC().Format("2006-01-02")
	return domain.UserPersona{
		UserID:      "anonymous",
		CreatedAt:   now,
		LastUpdated: now,
		Preferences: []string{"simple explanation", "real world examples"},
		Goals: []domain.SMARTGoal{
			{
				GoalID:     "default_goal",
				Specific:   fmt.Sprintf("Learn %s effectively", topic),
				Measurable: []string{"Complete the generated book"},
				Achievable: "Yes, with structured guidance",
				Relevant:   fmt.Sprintf("%s supports the user's stated interest", topic),
				TimeBound:  "6 months",
				Priority:   "high",
			},
		},
		KnowledgeGaps: []string{fmt.Sprintf("%s fundamentals", topic)},
		Summary:       fmt.Sprintf("New learner interested in %s.", topic),
	}
}

// SamplePersona is the worked example profile used by the demo and tests: a
// UX-heavy product generalist moving into AI product management.
func SamplePersona() domain.UserPersona {
	return domain.UserPersona{
		UserID:      "sonu_12",
		CreatedAt:   "2024-10-15",
		LastUpdated: "2025-01-15",
		Preferences: []string{
			"simple explanation",
			"real world analogy",
			"mermaid diagram",
			"case studies",
			"step-by-step guides",
		},
		Goals: []domain.SMARTGoal{
			{
				GoalID:   "ai_pm_transition_2025",
				Specific: "Become an AI Product Manager at a tech company",
				Measurable: []string{
					"Land 5+ AI PM interviews",
					"Get 2+ job offers",
					"Demonstrate AI product knowledge in interviews",
				},
				Achievable: "Yes, with my UX and technical background",
				Relevant:   "AI is the future, and I want to shape AI products",
				TimeBound:  "6 months (by July 2025)",
				Priority:   "high",
			},
		},
		Expertise: []domain.SkillLevel{
			{Domain: "Digital Marketing", Level: "intermediate", Confidence: 8},
			{Domain: "React.js Development", Level: "intermediate", Confidence: 7},
			{Domain: "UX Research", Level: "intermediate", Confidence: 8},
			{Domain: "UX Design", Level: "beginner", Confidence: 6},
			{Domain: "Product Management", Level: "beginner", Confidence: 5},
			{Domain: "AI/ML", Level: "beginner", Confidence: 2},
		},
		KnowledgeGaps: []string{
			"AI/ML fundamentals and terminology",
			"LLM capabilities and limitations",
			"AI product evaluation frameworks",
			"AI ethics and safety considerations",
			"AI product metrics and KPIs",
			"Prompt engineering best practices",
			"AI model evaluation techniques",
		},
		CompletedBooks: []domain.CompletedBook{
			{
				BookID:         "inspired_cagan_001",
				Title:          "Inspired - Marty Cagan",
				Topic:          "Product Management",
				CompletionDate: "2024-09-01",
				Rating:         5,
				KeyTakeaways: []string{
					"Product discovery techniques",
					"Outcome-based roadmaps",
					"Customer problem validation",
				},
			},
			{
				BookID:         "dont_make_think_001",
				Title:          "Don't Make Me Think - Steve Krug",
				Topic:          "UX Design",
				CompletionDate: "2024-06-15",
				Rating:         4,
				KeyTakeaways: []string{
					"Usability heuristics",
					"Navigation conventions",
				},
			},
		},
		Summary: "Product generalist with strong UX research and digital marketing background, transitioning toward AI product management.",
	}
}
