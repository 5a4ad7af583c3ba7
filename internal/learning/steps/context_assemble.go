package steps

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/bookforge-backend/internal/domain"
	"github.com/yungbote/bookforge-backend/internal/learning/prompts"
	"github.com/yungbote/bookforge-backend/internal/platform/logger"
	"github.com/yungbote/bookforge-backend/internal/profile"
)

// Consumer names a registered prompt consumer of the assembled context.
type Consumer string

const (
	ConsumerStrategicPlanner     Consumer = "strategic_planner"
	ConsumerKnowledgeSynthesizer Consumer = "knowledge_synthesizer"
)

var (
	// ErrNotAssembled is returned when a prompt is requested before Assemble.
	ErrNotAssembled = errors.New("context not assembled")
	// ErrUnknownConsumer is returned for a consumer outside the closed set.
	ErrUnknownConsumer = errors.New("unknown prompt consumer")
)

const unknownTopic = "Unknown Topic"

// AssembledContext is the request-scoped context snapshot. It is created once
// per request by Assemble and read, never mutated, by the planner and
// synthesizer. Re-assembly replaces it wholesale.
type AssembledContext struct {
	Profile           domain.UserPersona
	Topic             string
	ExistingKnowledge []domain.BookSummary
	UserResources     []domain.Resource

	assembled bool
}

func (c AssembledContext) Assembled() bool { return c.assembled }

// TopicOrDefault renders the topic, substituting "Unknown Topic" when absent.
func (c AssembledContext) TopicOrDefault() string {
	t := strings.TrimSpace(c.Topic)
	if t == "" {
		return unknownTopic
	}
	return t
}

// Assembler is the single source of truth for request-scoped context. It
// formats the same snapshot differently per consumer so new consumers can be
// added without touching existing ones.
type Assembler struct {
	log *logger.Logger
	ctx AssembledContext
}

func NewAssembler(log *logger.Logger) *Assembler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Assembler{log: log.With("service", "ContextAssembler")}
}

// Assemble captures the request context. It always succeeds: a nil profile is
// replaced by a topic-derived default persona, nil slices by empty defaults.
func (a *Assembler) Assemble(p *domain.UserPersona, topic string, knowledge []domain.BookSummary, resources []domain.Resource) AssembledContext {
	persona := profile.DefaultPersona(topic)
	if p != nil {
		persona = *p
	}
	if knowledge == nil {
		knowledge = []domain.BookSummary{}
	}
	if resources == nil {
		resources = []domain.Resource{}
	}
	a.ctx = AssembledContext{
		Profile:           persona,
		Topic:             strings.TrimSpace(topic),
		ExistingKnowledge: knowledge,
		UserResources:     resources,
		assembled:         true,
	}
	a.log.Debug("context assembled",
		"user_id", persona.UserID,
		"topic", a.ctx.TopicOrDefault(),
		"knowledge", len(knowledge),
		"resources", len(resources),
	)
	return a.ctx
}

// Context returns the current snapshot, false when Assemble has not run.
func (a *Assembler) Context() (AssembledContext, bool) {
	return a.ctx, a.ctx.assembled
}

// Prompt renders the consumer-specific prompt from the assembled context.
func (a *Assembler) Prompt(consumer Consumer) (prompts.Prompt, error) {
	if !a.ctx.assembled {
		return prompts.Prompt{}, fmt.Errorf("%w: assemble before requesting %q", ErrNotAssembled, consumer)
	}
	in, err := PromptInput(a.ctx, consumer)
	if err != nil {
		return prompts.Prompt{}, err
	}
	switch consumer {
	case ConsumerStrategicPlanner:
		return prompts.Build(prompts.PromptStrategicPlanner, in)
	case ConsumerKnowledgeSynthesizer:
		return prompts.Build(prompts.PromptKnowledgeSynthesizer, in)
	default:
		return prompts.Prompt{}, fmt.Errorf("%w: %q", ErrUnknownConsumer, consumer)
	}
}

// PromptInput extracts the per-consumer prompt fields from a snapshot.
func PromptInput(ctx AssembledContext, consumer Consumer) (prompts.Input, error) {
	switch consumer {
	case ConsumerStrategicPlanner, ConsumerKnowledgeSynthesizer:
	default:
		return prompts.Input{}, fmt.Errorf("%w: %q", ErrUnknownConsumer, consumer)
	}

	topic := ctx.TopicOrDefault()
	in := prompts.Input{
		Topic:               topic,
		UserProfileSummary:  profileSummary(ctx.Profile, topic),
		LearningPreferences: preferenceList(ctx.Profile),
		CurrentExpertise:    expertiseSummary(ctx.Profile),
		KnowledgeGaps:       gapList(ctx.Profile),
		GoalsTimeline:       goalsTimeline(ctx.Profile, topic),
		UserResources:       resourceList(ctx.UserResources, 3),
	}
	if consumer == ConsumerKnowledgeSynthesizer {
		in.PrimaryGoal = primaryGoal(ctx.Profile, topic)
		in.KnowledgeBridges = KnowledgeBridges(ctx.Profile.Expertise, topic)
		in.ExistingKnowledge = existingKnowledgeSummary(ctx.ExistingKnowledge, 3)
	}
	return in, nil
}

// KnowledgeBridges connects high-confidence expertise domains to the target
// topic. Entries below the confidence threshold are excluded; with none
// qualifying the bridge degrades to general knowledge.
func KnowledgeBridges(expertise []domain.SkillLevel, topic string) string {
	const confidenceThreshold = 6
	bridges := make([]string, 0, len(expertise))
	for _, e := range expertise {
		if e.Confidence < confidenceThreshold {
			continue
		}
		d := strings.TrimSpace(e.Domain)
		if d == "" {
			continue
		}
		bridges = append(bridges, d+" to "+topic)
	}
	bridges = dedupeStrings(bridges)
	if len(bridges) == 0 {
		return "General knowledge to " + topic
	}
	return strings.Join(bridges, ", ")
}

func profileSummary(p domain.UserPersona, topic string) string {
	if s := strings.TrimSpace(p.Summary); s != "" {
		return s
	}
	return fmt.Sprintf("Learner %s interested in %s.", strings.TrimSpace(p.UserID), topic)
}

func preferenceList(p domain.UserPersona) string {
	prefs := dedupeStrings(p.Preferences)
	if len(prefs) == 0 {
		return "no stated preferences"
	}
	return strings.Join(prefs, ", ")
}

func expertiseSummary(p domain.UserPersona) string {
	parts := make([]string, 0, len(p.Expertise))
	for _, e := range p.Expertise {
		d := strings.TrimSpace(e.Domain)
		if d == "" {
			continue
		}
		level := strings.TrimSpace(e.Level)
		if level == "" {
			level = "unknown"
		}
		parts = append(parts, fmt.Sprintf("%s: %s (confidence %d/10)", d, level, e.Confidence))
	}
	if len(parts) == 0 {
		return "no recorded expertise"
	}
	return strings.Join(parts, "; ")
}

func gapList(p domain.UserPersona) string {
	gaps := dedupeStrings(p.KnowledgeGaps)
	if len(gaps) == 0 {
		return "none recorded"
	}
	return strings.Join(gaps, ", ")
}

func goalsTimeline(p domain.UserPersona, topic string) string {
	g, ok := p.PrimaryGoal()
	if !ok {
		return fmt.Sprintf("learn %s effectively, 6 months", topic)
	}
	specific := strings.TrimSpace(g.Specific)
	if specific == "" {
		specific = fmt.Sprintf("learn %s effectively", topic)
	}
	timeline := strings.TrimSpace(g.TimeBound)
	if timeline == "" {
		timeline = "6 months"
	}
	return specific + ", " + timeline
}

func primaryGoal(p domain.UserPersona, topic string) string {
	g, ok := p.PrimaryGoal()
	if !ok || strings.TrimSpace(g.Specific) == "" {
		return fmt.Sprintf("learn %s effectively", topic)
	}
	return strings.TrimSpace(g.Specific)
}

func resourceList(resources []domain.Resource, max int) string {
	if max <= 0 {
		max = 3
	}
	labels := make([]string, 0, max)
	for _, r := range resources {
		if len(labels) >= max {
			break
		}
		labels = append(labels, r.Label())
	}
	if len(labels) == 0 {
		return "None provided"
	}
	return strings.Join(labels, ", ")
}

func existingKnowledgeSummary(books []domain.BookSummary, max int) string {
	if max <= 0 {
		max = 3
	}
	entries := make([]string, 0, max)
	for _, b := range books {
		if len(entries) >= max {
			break
		}
		entries = append(entries, fmt.Sprintf("'%s' (Topic: %s) - %s",
			strings.TrimSpace(b.Title), strings.TrimSpace(b.Topic), strings.TrimSpace(b.Summary)))
	}
	if len(entries) == 0 {
		return "No prior books found on this topic."
	}
	return strings.Join(entries, "; ")
}
