package planner

import (
	"sort"

	"github.com/minjae-ko/gyomucal/internal/datekey"
)

// redate enforces procurement precedence against the execution window:
// pre-work ends no later than the day before the window opens, post-work
// starts no earlier than the window close, everything else lands inside
// the window. When clamping collapses several same-phase items onto the
// same day they are re-spread over consecutive days, ordered by phase
// rank.
func redate(items []ProposalItem, window *ExecutionWindow, classifier Classifier) []ProposalItem {
	if window == nil || len(items) == 0 {
		return items
	}

	dayBeforeStart := datekey.ShiftDays(window.Start, -1)

	var pre, post, other []int
	for i, item := range items {
		switch classifier.Classify(item.Title) {
		case PhasePre:
			items[i].Date = datekey.ClampMax(item.Date, dayBeforeStart)
			pre = append(pre, i)
		case PhasePost:
			items[i].Date = datekey.ClampMin(item.Date, window.End)
			post = append(post, i)
		default:
			items[i].Date = datekey.ClampMax(datekey.ClampMin(item.Date, window.Start), window.End)
			other = append(other, i)
		}
	}

	// Pre-work spreads backwards so the last item lands the day before
	// the window; post-work spreads forwards from the window end.
	if collides(items, pre) {
		spread(items, pre, classifier, func(pos, total int) string {
			return datekey.ShiftDays(window.Start, pos-total)
		})
	}
	if collides(items, post) {
		spread(items, post, classifier, func(pos, _ int) string {
			return datekey.ShiftDays(window.End, pos)
		})
	}

	return items
}

func collides(items []ProposalItem, idx []int) bool {
	seen := make(map[string]bool, len(idx))
	for _, i := range idx {
		if seen[items[i].Date] {
			return true
		}
		seen[items[i].Date] = true
	}
	return false
}

// spread reassigns consecutive dates to the indexed items in phase-rank
// order. dateAt maps a position (0-based) and the group size to a date.
func spread(items []ProposalItem, idx []int, classifier Classifier, dateAt func(pos, total int) string) {
	ordered := append([]int(nil), idx...)
	sort.SliceStable(ordered, func(a, b int) bool {
		return classifier.Rank(items[ordered[a]].Title) < classifier.Rank(items[ordered[b]].Title)
	})
	for pos, i := range ordered {
		items[i].Date = dateAt(pos, len(ordered))
	}
}
