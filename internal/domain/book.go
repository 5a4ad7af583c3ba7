package domain

// Chapter is one entry in a generated Table of Contents.
type Chapter struct {
	Number                   int    `json:"chapter_number"`
	Title                    string `json:"title"`
	Summary                  string `json:"summary"`
	PersonalizationRationale string `json:"personalization_rationale"`
}

// BookStructure is the Knowledge Synthesizer's output: a personalized,
// ordered Table of Contents for one topic.
type BookStructure struct {
	Title        string    `json:"title"`
	Introduction string    `json:"introduction"`
	Chapters     []Chapter `json:"chapters"`
}
