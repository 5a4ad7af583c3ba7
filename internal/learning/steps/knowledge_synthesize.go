package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/bookforge-backend/internal/domain"
	"github.com/yungbote/bookforge-backend/internal/observability"
	"github.com/yungbote/bookforge-backend/internal/platform/envutil"
	"github.com/yungbote/bookforge-backend/internal/platform/logger"
)

// Synthesizer generates the personalized table of contents, optionally
// steered by the planner's execution plan. Like the planner it absorbs every
// generation-side failure into a deterministic topic-templated fallback.
type Synthesizer struct {
	log     *logger.Logger
	gen     TextGenerator
	timeout time.Duration
}

func NewSynthesizer(log *logger.Logger, gen TextGenerator) *Synthesizer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Synthesizer{
		log:     log.With("service", "KnowledgeSynthesizer"),
		gen:     gen,
		timeout: envutil.Duration("SYNTH_TIMEOUT", 120*time.Second),
	}
}

// Synthesize runs one generation call with the (possibly guidance-augmented)
// synthesis prompt. A nil plan skips guidance derivation. The error is
// non-nil only for programmer errors or parent-context cancellation.
func (s *Synthesizer) Synthesize(ctx context.Context, asm *Assembler, plan *domain.ExecutionPlan) (domain.BookStructure, bool, error) {
	prompt, err := asm.Prompt(ConsumerKnowledgeSynthesizer)
	if err != nil {
		return domain.BookStructure{}, false, err
	}
	snapshot, _ := asm.Context()
	topic := snapshot.TopicOrDefault()

	user := prompt.User
	if plan != nil {
		guidance := DeriveGuidance(*plan)
		if guidance != "" {
			user = user + "\n\nSTRATEGIC GUIDANCE\n" + guidance
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, genErr := s.gen.GenerateText(callCtx, prompt.System, user)
	if genErr != nil {
		if ctx.Err() != nil {
			return domain.BookStructure{}, false, ctx.Err()
		}
		return s.fallback(topic, "generation_error", genErr), false, nil
	}

	book, parseErr := parseBookStructure(raw)
	if parseErr != nil {
		return s.fallback(topic, "parse_or_validate", parseErr), false, nil
	}

	s.log.Info("book structure generated",
		"prompt_fingerprint", prompt.Fingerprint(),
		"chapters", len(book.Chapters),
	)
	return book, true, nil
}

func (s *Synthesizer) fallback(topic, reason string, cause error) domain.BookStructure {
	s.log.Warn("synthesizer falling back to deterministic structure",
		"reason", reason,
		"error", cause,
		"topic", topic,
	)
	if m := observability.Current(); m != nil {
		m.IncFallback("knowledge_synthesize", reason)
	}
	return FallbackStructure(topic)
}

// DeriveGuidance turns the execution plan into the textual addendum appended
// to the synthesis prompt. It only reads the knowledge synthesizer's tasks.
func DeriveGuidance(plan domain.ExecutionPlan) string {
	ap, ok := plan.AgentPlanFor(domain.AgentKnowledgeSynthesizer)
	if !ok {
		return "Follow the user profile closely and produce a balanced, personalized table of contents."
	}

	var critical, high, focus, resources []string
	for _, t := range ap.Tasks {
		switch t.Priority {
		case domain.PriorityCritical:
			if o := strings.TrimSpace(t.ExpectedOutcome); o != "" {
				critical = append(critical, o)
			}
		case domain.PriorityHigh:
			if o := strings.TrimSpace(t.ExpectedOutcome); o != "" {
				high = append(high, o)
			}
		}
		name := strings.ToLower(t.Name)
		if strings.Contains(name, "fundamental") || strings.Contains(name, "basic") {
			focus = append(focus, "fundamentals")
		}
		if strings.Contains(name, "practical") || strings.Contains(name, "application") {
			focus = append(focus, "practical_applications")
		}
		if strings.Contains(name, "advanced") || strings.Contains(name, "expert") {
			focus = append(focus, "advanced_concepts")
		}
		if len(resources) < 2 {
			if c := strings.TrimSpace(t.UserResourceConnection); c != "" {
				resources = append(resources, c)
			}
		}
	}
	focus = dedupeStrings(focus)

	var lines []string
	if len(critical) > 0 {
		lines = append(lines, "CRITICAL PRIORITIES: "+strings.Join(critical, "; "))
	}
	if len(high) > 0 {
		lines = append(lines, "HIGH PRIORITY TASKS: "+strings.Join(high, "; "))
	}
	if len(focus) > 0 {
		lines = append(lines, "STRATEGIC FOCUS AREAS: "+strings.Join(focus, ", "))
	}
	if len(resources) > 0 {
		lines = append(lines, "USER RESOURCE INTEGRATION: "+strings.Join(resources, "; "))
	}
	switch n := len(ap.Tasks); {
	case n >= 5:
		lines = append(lines, "QUALITY STANDARD: comprehensive coverage across all planned task areas")
	case n >= 3:
		lines = append(lines, "QUALITY STANDARD: balanced approach across planned task areas")
	default:
		lines = append(lines, "QUALITY STANDARD: focused approach on the planned task areas")
	}
	return strings.Join(lines, "\n")
}

// FallbackStructure is the deterministic three-chapter structure used when
// generation or validation fails. Pure function of the topic string.
func FallbackStructure(topic string) domain.BookStructure {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = unknownTopic
	}
	return domain.BookStructure{
		Title:        fmt.Sprintf("Learning %s: A Personalized Guide", topic),
		Introduction: fmt.Sprintf("This book provides a structured path through %s, starting from the essentials and building toward practical mastery.", topic),
		Chapters: []domain.Chapter{
			{
				Number:                   1,
				Title:                    fmt.Sprintf("Introduction to %s", topic),
				Summary:                  fmt.Sprintf("Orientation to %s: what it is, why it matters, and how this book approaches it.", topic),
				PersonalizationRationale: "Establishes shared vocabulary before personalized depth is possible.",
			},
			{
				Number:                   2,
				Title:                    fmt.Sprintf("Core Concepts in %s", topic),
				Summary:                  fmt.Sprintf("The foundational ideas of %s every practitioner relies on.", topic),
				PersonalizationRationale: "Covers the fundamentals the learner needs regardless of background.",
			},
			{
				Number:                   3,
				Title:                    fmt.Sprintf("Practical Applications of %s", topic),
				Summary:                  fmt.Sprintf("Applying %s to realistic problems and next steps for continued learning.", topic),
				PersonalizationRationale: "Turns concepts into action toward the learner's goal.",
			},
		},
	}
}

type chapterWire struct {
	Number                   *int    `json:"chapter_number"`
	Title                    *string `json:"title"`
	Summary                  *string `json:"summary"`
	PersonalizationRationale *string `json:"personalization_rationale"`
}

type bookWire struct {
	Title        *string        `json:"title"`
	Introduction *string        `json:"introduction"`
	Chapters     *[]chapterWire `json:"chapters"`
}

// parseBookStructure decodes and validates a raw model response. Chapter
// numbers must be contiguous starting at 1 in list order.
func parseBookStructure(raw string) (domain.BookStructure, error) {
	body := stripCodeFences(raw)
	sliced, ok := sliceJSONObject(body)
	if !ok {
		return domain.BookStructure{}, fmt.Errorf("no JSON object found in response")
	}

	var w bookWire
	if err := json.Unmarshal([]byte(sliced), &w); err != nil {
		return domain.BookStructure{}, fmt.Errorf("decode book structure: %w", err)
	}
	if w.Title == nil || strings.TrimSpace(*w.Title) == "" {
		return domain.BookStructure{}, fmt.Errorf("missing title")
	}
	if w.Introduction == nil || strings.TrimSpace(*w.Introduction) == "" {
		return domain.BookStructure{}, fmt.Errorf("missing introduction")
	}
	if w.Chapters == nil || len(*w.Chapters) == 0 {
		return domain.BookStructure{}, fmt.Errorf("missing or empty chapters")
	}

	chapters := make([]domain.Chapter, 0, len(*w.Chapters))
	for i, cw := range *w.Chapters {
		if cw.Number == nil {
			return domain.BookStructure{}, fmt.Errorf("chapter %d: missing chapter_number", i)
		}
		if *cw.Number != i+1 {
			return domain.BookStructure{}, fmt.Errorf("chapter %d: chapter_number %d out of order", i, *cw.Number)
		}
		if cw.Title == nil || strings.TrimSpace(*cw.Title) == "" {
			return domain.BookStructure{}, fmt.Errorf("chapter %d: missing title", i)
		}
		if cw.Summary == nil || strings.TrimSpace(*cw.Summary) == "" {
			return domain.BookStructure{}, fmt.Errorf("chapter %d: missing summary", i)
		}
		if cw.PersonalizationRationale == nil || strings.TrimSpace(*cw.PersonalizationRationale) == "" {
			return domain.BookStructure{}, fmt.Errorf("chapter %d: missing personalization_rationale", i)
		}
		chapters = append(chapters, domain.Chapter{
			Number:                   *cw.Number,
			Title:                    strings.TrimSpace(*cw.Title),
			Summary:                  strings.TrimSpace(*cw.Summary),
			PersonalizationRationale: strings.TrimSpace(*cw.PersonalizationRationale),
		})
	}

	return domain.BookStructure{
		Title:        strings.TrimSpace(*w.Title),
		Introduction: strings.TrimSpace(*w.Introduction),
		Chapters:     chapters,
	}, nil
}
