package formatter

import (
	"fmt"
	"strings"

	"github.com/minjae-ko/gyomucal/internal/planner"
)

// FormatProposal renders an AI schedule proposal for review before the
// confirm step.
func FormatProposal(p *planner.Proposal) string {
	var b strings.Builder

	b.WriteString(Header("일정 제안: " + p.Project))
	b.WriteString("\n")

	if p.Window != nil {
		b.WriteString(fmt.Sprintf("%s %s ~ %s\n",
			Dim("실행 기간:"),
			StyleBlue.Render(p.Window.Start),
			StyleBlue.Render(p.Window.End),
		))
	}
	if p.Deadline != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("마감:"), StyleYellow.Render(p.Deadline)))
	}
	b.WriteString("\n")

	for i, item := range p.Items {
		mark := StyleGreen.Render("[v]")
		if !p.Selected[i] {
			mark = Dim("[ ]")
		}
		b.WriteString(fmt.Sprintf("%s %s  %s %s\n",
			mark,
			StyleBlue.Render(item.Date),
			CategoryBadge(item.Category),
			StyleFg.Render(item.Title),
		))
	}
	return b.String()
}

// FormatApplyResult summarizes an apply: how many entries were added and
// how many were skipped as already registered.
func FormatApplyResult(added, skipped int) string {
	msg := StyleGreen.Render(fmt.Sprintf("일정 %d건을 등록했습니다.", added))
	if skipped > 0 {
		msg += " " + Dim(fmt.Sprintf("(이미 등록된 %d건은 건너뜀)", skipped))
	}
	return msg
}
