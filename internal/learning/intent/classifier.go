package intent

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/yungbote/bookforge-backend/internal/domain"
	"github.com/yungbote/bookforge-backend/internal/learning/prompts"
	"github.com/yungbote/bookforge-backend/internal/platform/envutil"
	"github.com/yungbote/bookforge-backend/internal/platform/logger"
)

// Generator is the generation boundary the classifier depends on.
type Generator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

// Classifier maps free-form user input to an intent plus extracted topic.
// One generation call; any failure degrades to a keyword heuristic, never an
// error — routing must not block the request.
type Classifier struct {
	log     *logger.Logger
	gen     Generator
	timeout time.Duration
}

func NewClassifier(log *logger.Logger, gen Generator) *Classifier {
	if log == nil {
		log = logger.NewNop()
	}
	return &Classifier{
		log:     log.With("service", "IntentClassifier"),
		gen:     gen,
		timeout: envutil.Duration("INTENT_TIMEOUT", 30*time.Second),
	}
}

type classificationWire struct {
	Intent     *string  `json:"intent"`
	Confidence *float64 `json:"confidence"`
	Topic      *string  `json:"topic"`
}

func (c *Classifier) Classify(ctx context.Context, message string) domain.IntentClassification {
	message = strings.TrimSpace(message)
	if message == "" {
		return domain.IntentClassification{Intent: domain.IntentUnknown, Confidence: 0}
	}

	prompt, err := prompts.Build(prompts.PromptIntentClassification, prompts.Input{UserMessage: message})
	if err != nil {
		c.log.Warn("intent prompt build failed", "error", err)
		return keywordFallback(message)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.gen.GenerateText(callCtx, prompt.System, prompt.User)
	if err != nil {
		c.log.Warn("intent classification call failed", "error", err)
		return keywordFallback(message)
	}

	parsed, ok := parseClassification(raw)
	if !ok {
		c.log.Warn("intent classification response unparseable")
		return keywordFallback(message)
	}
	return parsed
}

func parseClassification(raw string) (domain.IntentClassification, bool) {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		var w classificationWire
		if err := json.Unmarshal([]byte(s[start:end+1]), &w); err == nil && w.Intent != nil {
			intent, ok := domain.ParseIntentType(*w.Intent)
			if ok {
				out := domain.IntentClassification{Intent: intent, Confidence: 0.5}
				if w.Confidence != nil {
					out.Confidence = clamp01(*w.Confidence)
				}
				if w.Topic != nil {
					out.Topic = strings.TrimSpace(*w.Topic)
				}
				return out, true
			}
		}
	}
	// Some models return the bare enum despite the JSON contract.
	if intent, ok := domain.ParseIntentType(s); ok {
		return domain.IntentClassification{Intent: intent, Confidence: 0.5}, true
	}
	return domain.IntentClassification{}, false
}

func keywordFallback(message string) domain.IntentClassification {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, "learn", "teach me", "study", "guide about", "create a book", "course on"):
		return domain.IntentClassification{
			Intent:     domain.IntentLearnTopic,
			Confidence: 0.4,
			Topic:      extractTopicHeuristic(lower),
		}
	case containsAny(lower, "add ", "include ", "update my knowledge"):
		return domain.IntentClassification{Intent: domain.IntentAddKnowledge, Confidence: 0.4}
	case containsAny(lower, "summary", "summarize", "progress"):
		return domain.IntentClassification{Intent: domain.IntentGenerateSummary, Confidence: 0.4}
	case containsAny(lower, "preference", "profile", "settings", "learning style"):
		return domain.IntentClassification{Intent: domain.IntentUpdateProfile, Confidence: 0.4}
	default:
		return domain.IntentClassification{Intent: domain.IntentGeneral, Confidence: 0.3}
	}
}

func extractTopicHeuristic(lower string) string {
	for _, marker := range []string{"learn about ", "learn ", "teach me ", "study ", "guide about ", "course on "} {
		if idx := strings.Index(lower, marker); idx >= 0 {
			topic := strings.TrimSpace(lower[idx+len(marker):])
			topic = strings.Trim(topic, ".!?")
			if topic != "" {
				return topic
			}
		}
	}
	return "general learning"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
