package planner

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minjae-ko/gyomucal/internal/datekey"
	"github.com/minjae-ko/gyomucal/internal/domain"
	"github.com/minjae-ko/gyomucal/internal/events"
	"github.com/minjae-ko/gyomucal/internal/llm"
)

// draftSchedule is the JSON contract the model must produce.
type draftSchedule struct {
	Project  string       `json:"project"`
	Deadline *string      `json:"deadline"`
	Events   []draftEvent `json:"events"`
}

type draftEvent struct {
	Date     string `json:"date"`
	Task     string `json:"task"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Pipeline is the schedule-proposal service. It owns the single mutating
// commit point from AI-proposed data into the durable event store.
type Pipeline struct {
	mu         sync.Mutex
	provider   llm.Provider
	events     *events.Service
	classifier Classifier
	now        func() time.Time
}

// NewPipeline creates a Pipeline over the given provider and event
// store. A nil classifier uses the default keyword heuristic; a nil now
// uses the wall clock.
func NewPipeline(provider llm.Provider, eventSvc *events.Service, classifier Classifier, now func() time.Time) *Pipeline {
	if classifier == nil {
		classifier = KeywordClassifier{}
	}
	if now == nil {
		now = time.Now
	}
	return &Pipeline{provider: provider, events: eventSvc, classifier: classifier, now: now}
}

// Propose converts a free-text request into a confirmable Proposal.
// reference is an optional long-form manual passed through as model
// context only; it is never parsed.
func (p *Pipeline) Propose(ctx context.Context, request, reference string) (*Proposal, error) {
	if p.provider == nil {
		return nil, llm.ErrNotReady
	}

	today := datekey.Format(p.now())
	window := InferExecutionWindow(request, p.now())

	reply, err := p.generate(ctx, request, reference, today, window)
	if err != nil {
		return nil, err
	}

	draft, err := llm.ExtractJSON[draftSchedule](reply.Text, nil)
	if err != nil {
		return nil, err
	}

	proposal := p.coerce(draft, request, today, window)
	if len(proposal.Items) == 0 {
		return nil, ErrNothingActionable
	}
	return proposal, nil
}

// generate runs the provider call. When the grounded backend answers
// without any web citation, one stricter retry demands a citation or an
// empty result; a fabricated citation is never acceptable.
func (p *Pipeline) generate(ctx context.Context, request, reference, today string, window *ExecutionWindow) (*llm.Reply, error) {
	msgs := []llm.Message{{Role: llm.RoleUser, Content: buildUserPrompt(request, reference, today, window)}}

	reply, err := p.provider.Send(ctx, scheduleSystemPrompt, msgs, 0.2)
	if err != nil {
		return nil, err
	}
	if p.provider.Name() == "gemini" && len(reply.Citations) == 0 {
		retry, retryErr := p.provider.Send(ctx, scheduleSystemPrompt+groundedRetryPrompt, msgs, 0.2)
		if retryErr == nil {
			return retry, nil
		}
	}
	return reply, nil
}

func buildUserPrompt(request, reference, today string, window *ExecutionWindow) string {
	var b strings.Builder
	fmt.Fprintf(&b, "오늘 날짜: %s\n", today)
	if window != nil {
		fmt.Fprintf(&b, "요청에서 파악된 실행 기간: %s ~ %s\n", window.Start, window.End)
		b.WriteString("사전 업무(품의, 계약 등)는 실행 기간 이전에, 사후 업무(검수, 정산 등)는 실행 기간 이후에 배치하세요.\n")
	}
	if reference != "" {
		fmt.Fprintf(&b, "\n참고 자료:\n%s\n", reference)
	}
	fmt.Fprintf(&b, "\n업무 요청: %s", request)
	return b.String()
}

// coerce is the strict boundary between untyped model output and the
// typed domain: every field is checked, repaired, or dropped before any
// value crosses over.
func (p *Pipeline) coerce(draft draftSchedule, request, today string, window *ExecutionWindow) *Proposal {
	project := strings.TrimSpace(draft.Project)
	if project == "" {
		project = truncate(strings.TrimSpace(request), 20)
	}

	deadline := ""
	if draft.Deadline != nil && datekey.IsValid(*draft.Deadline) {
		deadline = *draft.Deadline
	}

	seen := make(map[string]bool)
	var items []ProposalItem
	for _, ev := range draft.Events {
		if !datekey.IsValid(ev.Date) {
			continue
		}
		title := strings.TrimSpace(ev.Title)
		if title == "" {
			task := strings.TrimSpace(ev.Task)
			if task == "" {
				continue
			}
			title = project + ": " + task
		}

		dedup := ev.Date + "|" + title
		if seen[dedup] {
			continue
		}
		seen[dedup] = true

		items = append(items, ProposalItem{
			Date:     datekey.ClampMin(ev.Date, today),
			Title:    title,
			Category: domain.ParseCategory(strings.TrimSpace(ev.Category)),
		})
		if len(items) == maxProposalItems {
			break
		}
	}

	items = redate(items, window, p.classifier)
	for i := range items {
		// Post-spread safety: spreading can push a date into the past.
		items[i].Date = datekey.ClampMin(items[i].Date, today)
	}
	sort.SliceStable(items, func(a, b int) bool { return items[a].Date < items[b].Date })

	selected := make([]bool, len(items))
	for i := range selected {
		selected[i] = true
	}

	return &Proposal{
		Project:  project,
		Deadline: deadline,
		Items:    items,
		Selected: selected,
		Window:   window,
	}
}

// Apply commits the selected items as AI-sourced user events, exactly
// once each. Items whose (date, title) pair already exists among
// persisted user events — or earlier in the same apply — are skipped.
// A proposal that was already applied is refused without side effects.
func (p *Pipeline) Apply(proposal *Proposal) (added, skipped int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if proposal.Applied {
		return 0, 0, ErrAlreadyApplied
	}

	existing := make(map[string]bool)
	for _, e := range p.events.UserEvents() {
		existing[e.Date+"|"+e.Title] = true
	}

	var batch []events.NewUserEvent
	for i, item := range proposal.Items {
		if !proposal.Selected[i] {
			continue
		}
		key := item.Date + "|" + item.Title
		if existing[key] {
			skipped++
			continue
		}
		existing[key] = true
		batch = append(batch, events.NewUserEvent{
			Date:     item.Date,
			Title:    item.Title,
			Category: item.Category,
			Source:   domain.SourceAI,
		})
	}

	p.events.CreateUserEvents(batch)

	proposal.Applied = true
	proposal.AppliedCount = len(batch)
	proposal.SkippedCount = skipped
	return len(batch), skipped, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
