package steps

import (
	"github.com/yungbote/bookforge-backend/internal/domain"
)

// ReviewResult is a single round of user feedback on a draft structure.
type ReviewResult struct {
	Approved  bool
	Structure domain.BookStructure
	Feedback  string
}

// CollabReviewer presents the draft ToC for review. The current
// implementation simulates approval without changes; a real interface slots
// in behind the same signature.
type CollabReviewer struct{}

func NewCollabReviewer() *CollabReviewer { return &CollabReviewer{} }

func (r *CollabReviewer) Review(book domain.BookStructure) ReviewResult {
	return ReviewResult{
		Approved:  true,
		Structure: book,
		Feedback:  "Looks good!",
	}
}
