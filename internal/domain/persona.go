package domain

import "strings"

// SMARTGoal is one concrete learning goal on a persona.
type SMARTGoal struct {
	GoalID     string   `json:"goal_id"`
	Specific   string   `json:"specific"`
	Measurable []string `json:"measurable"`
	Achievable string   `json:"achievable"`
	Relevant   string   `json:"relevant"`
	TimeBound  string   `json:"time_bound"`
	Priority   string   `json:"priority"` // high|medium|low
}

// SkillLevel records self-reported expertise in one domain.
type SkillLevel struct {
	Domain     string `json:"domain"`
	Level      string `json:"level"` // beginner|intermediate|advanced
	Confidence int    `json:"confidence"`
}

// CompletedBook is a book the user already finished through the platform.
type CompletedBook struct {
	BookID         string   `json:"book_id"`
	Title          string   `json:"title"`
	Topic          string   `json:"topic"`
	CompletionDate string   `json:"completion_date"`
	Rating         int      `json:"rating,omitempty"`
	KeyTakeaways   []string `json:"key_takeaways,omitempty"`
}

// UserPersona is the full learning profile a request runs against.
// It is built once per request and treated as immutable downstream.
type UserPersona struct {
	UserID      string `json:"user_id"`
	CreatedAt   string `json:"created_at"`
	LastUpdated string `json:"last_updated"`

	Preferences []string     `json:"preferences"`
	Goals       []SMARTGoal  `json:"goals"`
	Expertise   []SkillLevel `json:"expertise"`

	KnowledgeGaps  []string        `json:"knowledge_gaps"`
	CompletedBooks []CompletedBook `json:"completed_books"`
	Summary        string          `json:"summary"`
}

// PrimaryGoal returns the first goal, or false when the persona has none.
func (p UserPersona) PrimaryGoal() (SMARTGoal, bool) {
	if len(p.Goals) == 0 {
		return SMARTGoal{}, false
	}
	return p.Goals[0], true
}

// BookSummary is a prior-knowledge entry surfaced to prompts.
type BookSummary struct {
	Title   string `json:"title"`
	Topic   string `json:"topic"`
	Summary string `json:"summary"`
}

// Resource is a user-provided learning material.
type Resource struct {
	Title string `json:"title"`
	Type  string `json:"type"` // book|article|video|course|other
	URL   string `json:"url,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// Label renders a resource the way prompts reference it.
func (r Resource) Label() string {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = "Untitled resource"
	}
	typ := strings.TrimSpace(r.Type)
	if typ == "" {
		typ = "other"
	}
	return title + " (" + typ + ")"
}
