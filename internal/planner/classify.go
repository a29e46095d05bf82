package planner

import "strings"

// Phase is the procurement sub-task classification relative to the
// execution window.
type Phase int

const (
	PhaseNone Phase = iota
	PhasePre        // bid, approval, vendor selection, contract, order
	PhasePost       // inspection, settlement, payment
)

// Classifier decides which procurement phase a schedule item title
// belongs to, and its ordering rank within that phase (lower runs
// earlier). The keyword heuristic is deliberately pluggable.
type Classifier interface {
	Classify(title string) Phase
	Rank(title string) int
}

// KeywordClassifier is the default substring-match heuristic over Korean
// procurement vocabulary.
type KeywordClassifier struct{}

// Keyword groups in rank order. Within a phase, earlier groups schedule
// earlier: approval requests precede vendor selection precede contract
// signing; inspection precedes settlement precedes payment claims.
var (
	preRanked = [][]string{
		{"품의", "승인", "입찰", "공고"},
		{"업체", "선정", "견적", "비교"},
		{"계약", "발주", "주문"},
	}
	postRanked = [][]string{
		{"검수", "검사", "납품확인", "완료보고"},
		{"정산", "결산"},
		{"지급", "청구", "대금", "세금계산서", "지출결의"},
	}
)

func (KeywordClassifier) Classify(title string) Phase {
	if matchRank(title, preRanked) >= 0 {
		return PhasePre
	}
	if matchRank(title, postRanked) >= 0 {
		return PhasePost
	}
	return PhaseNone
}

func (KeywordClassifier) Rank(title string) int {
	if r := matchRank(title, preRanked); r >= 0 {
		return r
	}
	if r := matchRank(title, postRanked); r >= 0 {
		return r
	}
	return len(preRanked)
}

// matchRank returns the index of the first keyword group containing a
// substring of title, or -1.
func matchRank(title string, groups [][]string) int {
	for rank, group := range groups {
		for _, kw := range group {
			if strings.Contains(title, kw) {
				return rank
			}
		}
	}
	return -1
}
