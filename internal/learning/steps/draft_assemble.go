package steps

import (
	"fmt"
	"strings"

	"github.com/yungbote/bookforge-backend/internal/domain"
)

// AssembleDraft renders the validated structure as a markdown book draft.
// Stands in for the future deep-research content generation.
func AssembleDraft(book domain.BookStructure) string {
	var b strings.Builder
	b.WriteString("# " + strings.TrimSpace(book.Title) + "\n\n")
	if intro := strings.TrimSpace(book.Introduction); intro != "" {
		b.WriteString(intro + "\n\n")
	}
	for _, ch := range book.Chapters {
		b.WriteString(fmt.Sprintf("## Chapter %d: %s\n", ch.Number, strings.TrimSpace(ch.Title)))
		if s := strings.TrimSpace(ch.Summary); s != "" {
			b.WriteString(s + "\n")
		}
		if r := strings.TrimSpace(ch.PersonalizationRationale); r != "" {
			b.WriteString("_Why this chapter: " + r + "_\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()) + "\n"
}
