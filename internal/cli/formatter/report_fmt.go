package formatter

import (
	"fmt"
	"strings"

	"github.com/minjae-ko/gyomucal/internal/planner"
)

// FormatReport renders an AI event description with its web citations.
func FormatReport(r *planner.Report) string {
	var b strings.Builder

	b.WriteString(r.Content)
	if !strings.HasSuffix(r.Content, "\n") {
		b.WriteString("\n")
	}

	if len(r.Citations) > 0 {
		b.WriteString("\n")
		b.WriteString(Header("출처"))
		b.WriteString("\n")
		for i, c := range r.Citations {
			title := c.Title
			if title == "" {
				title = c.URL
			}
			b.WriteString(fmt.Sprintf("%s %s\n   %s\n",
				Bold(fmt.Sprintf("%d.", i+1)),
				StyleFg.Render(title),
				Dim(c.URL),
			))
		}
	}
	if r.Cached {
		b.WriteString("\n" + Dim("(저장된 설명을 다시 사용했습니다)") + "\n")
	}
	return b.String()
}
