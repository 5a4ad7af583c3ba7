package domain

import "strings"

// IntentType classifies what the user is asking the system to do.
type IntentType string

const (
	IntentLearnTopic      IntentType = "LEARN_TOPIC"
	IntentAddKnowledge    IntentType = "ADD_KNOWLEDGE"
	IntentGenerateSummary IntentType = "GENERATE_SUMMARY"
	IntentUpdateProfile   IntentType = "UPDATE_PROFILE"
	IntentGeneral         IntentType = "GENERAL"
	IntentUnknown         IntentType = "UNKNOWN"
)

func ParseIntentType(raw string) (IntentType, bool) {
	switch IntentType(strings.TrimSpace(strings.ToUpper(raw))) {
	case IntentLearnTopic:
		return IntentLearnTopic, true
	case IntentAddKnowledge:
		return IntentAddKnowledge, true
	case IntentGenerateSummary:
		return IntentGenerateSummary, true
	case IntentUpdateProfile:
		return IntentUpdateProfile, true
	case IntentGeneral:
		return IntentGeneral, true
	case IntentUnknown:
		return IntentUnknown, true
	default:
		return "", false
	}
}

// IntentClassification is a single-shot classification of user input.
type IntentClassification struct {
	Intent     IntentType `json:"intent"`
	Confidence float64    `json:"confidence"`
	Topic      string     `json:"topic,omitempty"`
}
