package formatter

import (
	"fmt"
	"strings"

	"github.com/minjae-ko/gyomucal/internal/domain"
)

// FormatEvents renders a date-ordered event list grouped by month.
// Events are expected pre-sorted by date key.
func FormatEvents(events []domain.Event) string {
	if len(events) == 0 {
		return Dim("표시할 일정이 없습니다.") + "\n"
	}

	var b strings.Builder
	month := ""
	for _, e := range events {
		if m := e.Date[:7]; m != month {
			if month != "" {
				b.WriteString("\n")
			}
			month = m
			b.WriteString(Header(m))
			b.WriteString("\n")
		}
		b.WriteString(FormatEventLine(e))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatEventLine renders one event as a single list row.
func FormatEventLine(e domain.Event) string {
	line := fmt.Sprintf("%s  %s %s",
		StyleBlue.Render(e.Date),
		CategoryBadge(e.Category),
		StyleFg.Render(e.Title),
	)
	if badge := SourceBadge(e.Source); badge != "" {
		line += "  " + badge
	}
	line += "  " + Dim(e.ID)
	return line
}
