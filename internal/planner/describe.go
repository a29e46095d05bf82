package planner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/minjae-ko/gyomucal/internal/domain"
	"github.com/minjae-ko/gyomucal/internal/llm"
	"github.com/minjae-ko/gyomucal/internal/repository"
)

// ErrSuperseded indicates a newer describe request was issued while this
// one was in flight. The result must be discarded, not shown; it is not
// a failure.
var ErrSuperseded = errors.New("describe request superseded")

// Report is a structured AI explanation of one calendar entry.
type Report struct {
	EventID   string
	Content   string
	Citations []llm.Citation
	Cached    bool
}

// DescriptionCache is the persistence surface the describer needs.
type DescriptionCache interface {
	Get(ctx context.Context, eventID string) (*repository.Description, error)
	Put(ctx context.Context, d repository.Description) error
	Delete(ctx context.Context, eventID string) error
}

// Describer produces per-event AI reports. Requests carry a monotonic
// sequence id; only the most recently issued request is authoritative,
// so a slow early response can never clobber the report for the event
// the user selected afterwards.
type Describer struct {
	provider llm.Provider
	cache    DescriptionCache

	seq    atomic.Uint64
	active atomic.Uint64
}

// NewDescriber creates a Describer. cache may be nil, disabling reuse.
func NewDescriber(provider llm.Provider, cache DescriptionCache) *Describer {
	return &Describer{provider: provider, cache: cache}
}

// Describe fetches (or reuses) the report for event. onChunk receives
// streamed text when the backend supports it. Cache failures are
// swallowed: a cold cache costs one extra model call, never an error.
func (d *Describer) Describe(ctx context.Context, event domain.Event, onChunk func(string)) (*Report, error) {
	if d.provider == nil {
		return nil, llm.ErrNotReady
	}

	if d.cache != nil {
		if cached, err := d.cache.Get(ctx, event.ID); err == nil {
			return &Report{EventID: event.ID, Content: cached.Content, Citations: cached.Citations, Cached: true}, nil
		}
	}

	id := d.seq.Add(1)
	d.active.Store(id)

	prompt := fmt.Sprintf("일정 항목:\n- 날짜: %s\n- 제목: %s\n- 분류: %s", event.Date, event.Title, event.Category)
	msgs := []llm.Message{{Role: llm.RoleUser, Content: prompt}}

	var reply *llm.Reply
	var err error
	if streamer, ok := d.provider.(llm.Streamer); ok {
		reply, err = streamer.SendStream(ctx, describeSystemPrompt, msgs, 0.3, func(chunk string) {
			// Suppress chunks of an already superseded request.
			if onChunk != nil && d.active.Load() == id {
				onChunk(chunk)
			}
		})
	} else {
		reply, err = d.provider.Send(ctx, describeSystemPrompt, msgs, 0.3)
	}

	if d.active.Load() != id {
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	if d.cache != nil {
		_ = d.cache.Put(ctx, repository.Description{
			EventID:   event.ID,
			Content:   reply.Text,
			Citations: reply.Citations,
		})
	}
	return &Report{EventID: event.ID, Content: reply.Text, Citations: reply.Citations}, nil
}

// Invalidate drops the cached report for an event whose date, title, or
// category changed. Implements events.DescriptionInvalidator.
func (d *Describer) Invalidate(eventID string) {
	if d.cache == nil {
		return
	}
	_ = d.cache.Delete(context.Background(), eventID)
}
