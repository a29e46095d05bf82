// Package planner converts free-text work requests into confirmable
// batches of dated calendar entries. The pipeline infers an execution
// window from Korean date-range phrasing, asks the AI provider for a
// draft schedule, validates the returned JSON, classifies items into
// procurement pre-work and post-work, re-dates them to respect ordering
// constraints, and commits confirmed items to the event store exactly
// once.
package planner

import (
	"errors"

	"github.com/minjae-ko/gyomucal/internal/domain"
)

var (
	// ErrNothingActionable indicates the model decided the request does
	// not imply any school administrative schedule.
	ErrNothingActionable = errors.New("request yields no actionable schedule")

	// ErrAlreadyApplied indicates a second apply attempt on the same
	// proposal; the proposal is frozen and the attempt is a no-op.
	ErrAlreadyApplied = errors.New("proposal already applied")
)

// ExecutionWindow is the inferred start/end date range bounding when the
// requested execution (e.g. construction, delivery) occurs.
type ExecutionWindow struct {
	Start string // YYYY-MM-DD
	End   string // YYYY-MM-DD
}

// ProposalItem is one candidate schedule entry. Ephemeral until applied.
type ProposalItem struct {
	Date     string
	Title    string
	Category domain.EventCategory
}

// Proposal is an AI-generated, user-confirmable batch of candidate
// items. Selected runs parallel to Items. Once Applied is true the
// proposal is read-only; further toggles and apply attempts are refused.
type Proposal struct {
	Project      string
	Deadline     string // empty when the model gave none or an invalid date
	Items        []ProposalItem
	Selected     []bool
	Window       *ExecutionWindow
	Applied      bool
	AppliedCount int
	SkippedCount int
}

// Toggle flips the selection of item i. Refused after apply.
func (p *Proposal) Toggle(i int) bool {
	if p.Applied || i < 0 || i >= len(p.Selected) {
		return false
	}
	p.Selected[i] = !p.Selected[i]
	return true
}

// maxProposalItems caps how many dated sub-tasks one request produces.
const maxProposalItems = 4
