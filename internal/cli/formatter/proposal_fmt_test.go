package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/minjae-ko/gyomucal/internal/domain"
	"github.com/minjae-ko/gyomucal/internal/planner"
)

func TestFormatProposal_ShowsWindowAndSelection(t *testing.T) {
	p := &planner.Proposal{
		Project:  "현수막",
		Deadline: "2025-12-24",
		Window:   &planner.ExecutionWindow{Start: "2025-12-20", End: "2025-12-24"},
		Items: []planner.ProposalItem{
			{Date: "2025-12-17", Title: "현수막: 구매 품의", Category: domain.CategoryGoods},
			{Date: "2025-12-24", Title: "현수막: 납품 검수", Category: domain.CategoryGoods},
		},
		Selected: []bool{true, false},
	}

	out := FormatProposal(p)

	assert.Contains(t, out, "현수막")
	assert.Contains(t, out, "2025-12-20")
	assert.Contains(t, out, "2025-12-24")
	assert.Contains(t, out, "실행 기간")
	assert.Contains(t, out, "[v]")
	assert.Contains(t, out, "[ ]")
	assert.Contains(t, out, "구매 품의")
}

func TestFormatApplyResult(t *testing.T) {
	assert.Contains(t, FormatApplyResult(3, 0), "3건")

	withSkips := FormatApplyResult(2, 1)
	assert.Contains(t, withSkips, "2건")
	assert.Contains(t, withSkips, "건너뜀")
}
