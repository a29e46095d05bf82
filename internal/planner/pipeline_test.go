package planner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minjae-ko/gyomucal/internal/events"
	"github.com/minjae-ko/gyomucal/internal/llm"
	"github.com/minjae-ko/gyomucal/internal/store"
)

// stubProvider replays canned replies in order and records the prompts
// it was asked.
type stubProvider struct {
	name    string
	replies []*llm.Reply
	errs    []error
	systems []string
	calls   int
}

func (s *stubProvider) Send(_ context.Context, system string, _ []llm.Message, _ float64) (*llm.Reply, error) {
	i := s.calls
	s.calls++
	s.systems = append(s.systems, system)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var reply *llm.Reply
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	return reply, err
}

func (s *stubProvider) Name() string {
	if s.name == "" {
		return "openrouter"
	}
	return s.name
}

func fixedNow() time.Time {
	return time.Date(2025, 12, 1, 9, 0, 0, 0, time.Local)
}

func newTestEvents(t *testing.T) *events.Service {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	return events.NewService(st, nil, nil)
}

func TestPropose_CoercesDraftIntoProposal(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: `{
		"project": "현수막",
		"deadline": "2025-12-24",
		"events": [
			{"date": "2025-12-10", "task": "구매 품의"},
			{"date": "2025-12-12", "title": "업체 선정", "category": "물품"},
			{"date": "not-a-date", "task": "버려질 항목"}
		]
	}`}}}

	p := NewPipeline(provider, newTestEvents(t), nil, fixedNow)
	proposal, err := p.Propose(context.Background(), "현수막 구매", "")
	require.NoError(t, err)

	require.Len(t, proposal.Items, 2)
	assert.Equal(t, "현수막", proposal.Project)
	assert.Equal(t, "2025-12-24", proposal.Deadline)
	assert.Equal(t, "현수막: 구매 품의", proposal.Items[0].Title)
	assert.Equal(t, "업체 선정", proposal.Items[1].Title)
	assert.Equal(t, []bool{true, true}, proposal.Selected)
}

func TestPropose_DeduplicatesRepeatedDraftEvents(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: `{
		"project": "현수막",
		"deadline": null,
		"events": [
			{"date": "2025-12-10", "task": "품의"},
			{"date": "2025-12-10", "task": "품의"}
		]
	}`}}}

	p := NewPipeline(provider, newTestEvents(t), nil, fixedNow)
	proposal, err := p.Propose(context.Background(), "현수막 구매", "")
	require.NoError(t, err)
	assert.Len(t, proposal.Items, 1)
}

func TestPropose_RedatesAroundInferredWindow(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: `{
		"project": "난방기",
		"deadline": null,
		"events": [
			{"date": "2025-12-22", "task": "구매 품의"},
			{"date": "2025-12-21", "task": "납품 검수"}
		]
	}`}}}

	p := NewPipeline(provider, newTestEvents(t), nil, fixedNow)
	proposal, err := p.Propose(context.Background(), "12월 20~24일 난방기 설치", "")
	require.NoError(t, err)

	require.NotNil(t, proposal.Window)
	assert.Equal(t, "2025-12-20", proposal.Window.Start)
	assert.Equal(t, "2025-12-24", proposal.Window.End)

	byTitle := map[string]string{}
	for _, item := range proposal.Items {
		byTitle[item.Title] = item.Date
	}
	assert.Equal(t, "2025-12-19", byTitle["난방기: 구매 품의"])
	assert.Equal(t, "2025-12-24", byTitle["난방기: 납품 검수"])
}

func TestPropose_PastDatesClampToToday(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: `{
		"project": "비품",
		"deadline": null,
		"events": [{"date": "2025-11-01", "task": "재고 확인"}]
	}`}}}

	p := NewPipeline(provider, newTestEvents(t), nil, fixedNow)
	proposal, err := p.Propose(context.Background(), "비품 점검", "")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", proposal.Items[0].Date)
}

func TestPropose_CapsItemCount(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: `{
		"project": "행사",
		"deadline": null,
		"events": [
			{"date": "2025-12-05", "task": "a"},
			{"date": "2025-12-06", "task": "b"},
			{"date": "2025-12-07", "task": "c"},
			{"date": "2025-12-08", "task": "d"},
			{"date": "2025-12-09", "task": "e"}
		]
	}`}}}

	p := NewPipeline(provider, newTestEvents(t), nil, fixedNow)
	proposal, err := p.Propose(context.Background(), "행사 준비", "")
	require.NoError(t, err)
	assert.Len(t, proposal.Items, maxProposalItems)
}

func TestPropose_NothingActionable(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: `{"project":"","deadline":null,"events":[]}`}}}

	p := NewPipeline(provider, newTestEvents(t), nil, fixedNow)
	_, err := p.Propose(context.Background(), "안녕하세요", "")
	assert.ErrorIs(t, err, ErrNothingActionable)
}

func TestPropose_MalformedOutputIsHardFailure(t *testing.T) {
	provider := &stubProvider{replies: []*llm.Reply{{Text: "일정을 짜 드릴게요!"}}}

	p := NewPipeline(provider, newTestEvents(t), nil, fixedNow)
	_, err := p.Propose(context.Background(), "현수막 구매", "")
	assert.ErrorIs(t, err, llm.ErrInvalidOutput)
}

func TestPropose_NilProviderNotReady(t *testing.T) {
	p := NewPipeline(nil, newTestEvents(t), nil, fixedNow)
	_, err := p.Propose(context.Background(), "현수막 구매", "")
	assert.ErrorIs(t, err, llm.ErrNotReady)
}

func TestPropose_GroundedRetryWithoutCitations(t *testing.T) {
	payload := `{"project":"현수막","deadline":null,"events":[{"date":"2025-12-10","task":"품의"}]}`
	provider := &stubProvider{
		name: "gemini",
		replies: []*llm.Reply{
			{Text: payload}, // no citations: triggers one stricter retry
			{Text: payload, Citations: []llm.Citation{{Title: "조달청", URL: "https://example.com"}}},
		},
	}

	p := NewPipeline(provider, newTestEvents(t), nil, fixedNow)
	proposal, err := p.Propose(context.Background(), "현수막 구매", "")
	require.NoError(t, err)

	assert.Equal(t, 2, provider.calls)
	assert.Contains(t, provider.systems[1], groundedRetryPrompt)
	require.Len(t, proposal.Items, 1)
}

func TestPropose_CitedReplySkipsRetry(t *testing.T) {
	payload := `{"project":"현수막","deadline":null,"events":[{"date":"2025-12-10","task":"품의"}]}`
	provider := &stubProvider{
		name:    "gemini",
		replies: []*llm.Reply{{Text: payload, Citations: []llm.Citation{{URL: "https://example.com"}}}},
	}

	p := NewPipeline(provider, newTestEvents(t), nil, fixedNow)
	_, err := p.Propose(context.Background(), "현수막 구매", "")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)
}

func TestApply_CommitsSelectedItemsOnce(t *testing.T) {
	svc := newTestEvents(t)
	p := NewPipeline(&stubProvider{}, svc, nil, fixedNow)

	proposal := &Proposal{
		Items: []ProposalItem{
			{Date: "2025-12-10", Title: "구매 품의", Category: "물품"},
			{Date: "2025-12-12", Title: "업체 선정", Category: "물품"},
		},
		Selected: []bool{true, false},
	}

	added, skipped, err := p.Apply(proposal)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 0, skipped)
	assert.True(t, proposal.Applied)
	assert.Equal(t, 1, proposal.AppliedCount)

	list := svc.UserEvents()
	require.Len(t, list, 1)
	assert.Equal(t, "구매 품의", list[0].Title)

	_, _, err = p.Apply(proposal)
	assert.ErrorIs(t, err, ErrAlreadyApplied)
	assert.Len(t, svc.UserEvents(), 1)
}

func TestApply_SkipsEventsAlreadyPersisted(t *testing.T) {
	svc := newTestEvents(t)
	svc.CreateUserEvent("2025-12-10", "구매 품의", "물품", "manual")

	p := NewPipeline(&stubProvider{}, svc, nil, fixedNow)
	proposal := &Proposal{
		Items: []ProposalItem{
			{Date: "2025-12-10", Title: "구매 품의", Category: "물품"},
			{Date: "2025-12-12", Title: "업체 선정", Category: "물품"},
		},
		Selected: []bool{true, true},
	}

	added, skipped, err := p.Apply(proposal)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, skipped)
	assert.Len(t, svc.UserEvents(), 2)
}
