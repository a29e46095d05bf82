// Package events merges builtin schedule events, their sparse overrides,
// and the mutable user event list into one queryable collection, and owns
// every mutation path into persistent storage.
package events

import (
	"strings"

	"github.com/google/uuid"

	"github.com/minjae-ko/gyomucal/internal/datekey"
	"github.com/minjae-ko/gyomucal/internal/domain"
	"github.com/minjae-ko/gyomucal/internal/store"
)

// DescriptionInvalidator drops any cached AI description for an event
// whose displayed content changed.
type DescriptionInvalidator interface {
	Invalidate(eventID string)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(string) {}

// Patch carries optional field updates for a user event.
type Patch struct {
	Date     *string
	Title    *string
	Category *domain.EventCategory
}

// Service is the event store facade. Storage read/write failures degrade
// to empty/default results and are never surfaced: losing an edit in
// private browsing-style environments is acceptable, crashing is not.
type Service struct {
	store    *store.Store
	builtins []domain.Event
	cache    DescriptionInvalidator
}

// NewService creates a Service over the given persistent store and the
// deterministically generated builtin event set.
func NewService(s *store.Store, builtins []domain.Event, cache DescriptionInvalidator) *Service {
	if cache == nil {
		cache = noopInvalidator{}
	}
	return &Service{store: s, builtins: builtins, cache: cache}
}

// ListEffective returns builtin events with overrides applied, followed
// by all user events.
func (s *Service) ListEffective() []domain.Event {
	overrides := s.store.Overrides()
	out := make([]domain.Event, 0, len(s.builtins))
	for _, base := range s.builtins {
		if o, ok := overrides[base.ID]; ok {
			out = append(out, o.Apply(base))
			continue
		}
		out = append(out, base)
	}
	return append(out, s.store.UserEvents()...)
}

// CreateUserEvent assigns a fresh id, prepends the event to the user
// list, persists, and notifies. The created event is returned.
func (s *Service) CreateUserEvent(date, title string, category domain.EventCategory, source domain.EventSource) domain.Event {
	e := domain.Event{
		ID:       "user-" + uuid.NewString(),
		Date:     date,
		Title:    strings.TrimSpace(title),
		Kind:     domain.KindUser,
		Category: category,
		Source:   source,
	}
	list := append([]domain.Event{e}, s.store.UserEvents()...)
	_ = s.store.SaveUserEvents(list)
	return e
}

// NewUserEvent describes an event to create in a batch.
type NewUserEvent struct {
	Date     string
	Title    string
	Category domain.EventCategory
	Source   domain.EventSource
}

// CreateUserEvents assigns fresh ids to the whole batch and persists the
// merged list with a single write, so a multi-item commit notifies
// listeners once.
func (s *Service) CreateUserEvents(batch []NewUserEvent) []domain.Event {
	created := make([]domain.Event, 0, len(batch))
	for _, n := range batch {
		created = append(created, domain.Event{
			ID:       "user-" + uuid.NewString(),
			Date:     n.Date,
			Title:    strings.TrimSpace(n.Title),
			Kind:     domain.KindUser,
			Category: n.Category,
			Source:   n.Source,
		})
	}
	if len(created) == 0 {
		return created
	}
	list := append(append([]domain.Event(nil), created...), s.store.UserEvents()...)
	_ = s.store.SaveUserEvents(list)
	return created
}

// UserEvents exposes the persisted user event list.
func (s *Service) UserEvents() []domain.Event {
	return s.store.UserEvents()
}

// UpdateUserEvent applies a patch to the user event with the given id.
// Builtin ids are ignored. Returns true when an event was updated.
func (s *Service) UpdateUserEvent(id string, patch Patch) bool {
	list := s.store.UserEvents()
	updated := false
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Date != nil && datekey.IsValid(*patch.Date) {
			list[i].Date = *patch.Date
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
			list[i].Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Category != nil {
			list[i].Category = *patch.Category
		}
		updated = true
		break
	}
	if !updated {
		return false
	}
	_ = s.store.SaveUserEvents(list)
	s.cache.Invalidate(id)
	return true
}

// MoveEvent changes an event's date. User events move directly. For a
// builtin event, moving back to its base date deletes the override's
// date field (pruning the override entirely once empty); any other
// target date is recorded as an override. The cached AI description is
// invalidated either way, since generated content may quote the old date.
func (s *Service) MoveEvent(id, newDate string) bool {
	if !datekey.IsValid(newDate) {
		return false
	}

	if strings.HasPrefix(id, "user-") {
		date := newDate
		return s.UpdateUserEvent(id, Patch{Date: &date})
	}

	base, ok := s.builtin(id)
	if !ok {
		return false
	}

	overrides := s.store.Overrides()
	o := overrides[id]
	if newDate == base.Date {
		o.Date = nil
	} else {
		o.Date = &newDate
	}
	if o.Empty() {
		delete(overrides, id)
	} else {
		overrides[id] = o
	}
	_ = s.store.SaveOverrides(overrides)
	s.cache.Invalidate(id)
	return true
}

// OverrideBuiltin patches a builtin event's title or category. Fields
// equal to the builtin base are stored as absent; an override reduced to
// the base event is pruned.
func (s *Service) OverrideBuiltin(id string, patch Patch) bool {
	base, ok := s.builtin(id)
	if !ok {
		return false
	}

	overrides := s.store.Overrides()
	o := overrides[id]
	if patch.Date != nil && datekey.IsValid(*patch.Date) {
		if *patch.Date == base.Date {
			o.Date = nil
		} else {
			o.Date = patch.Date
		}
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		if *patch.Title == base.Title {
			o.Title = nil
		} else {
			o.Title = patch.Title
		}
	}
	if patch.Category != nil {
		if *patch.Category == base.Category {
			o.Category = nil
		} else {
			o.Category = patch.Category
		}
	}
	if o.Empty() {
		delete(overrides, id)
	} else {
		overrides[id] = o
	}
	_ = s.store.SaveOverrides(overrides)
	s.cache.Invalidate(id)
	return true
}

// DeleteUserEvent removes a user event. Returns true when found.
func (s *Service) DeleteUserEvent(id string) bool {
	list := s.store.UserEvents()
	kept := list[:0]
	found := false
	for _, e := range list {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return false
	}
	_ = s.store.SaveUserEvents(kept)
	s.cache.Invalidate(id)
	return true
}

// ResetBuiltinOverride removes the whole override for a builtin event,
// restoring its defaults. Returns true when an override existed.
func (s *Service) ResetBuiltinOverride(id string) bool {
	overrides := s.store.Overrides()
	if _, ok := overrides[id]; !ok {
		return false
	}
	delete(overrides, id)
	_ = s.store.SaveOverrides(overrides)
	s.cache.Invalidate(id)
	return true
}

// Filter returns the events whose category AND source are members of the
// given selections. An empty selection on either dimension matches
// nothing.
func Filter(events []domain.Event, categories map[domain.EventCategory]bool, sources map[domain.EventSource]bool) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, e := range events {
		if categories[e.Category] && sources[e.Source] {
			out = append(out, e)
		}
	}
	return out
}

// FilterBySelection applies a persisted FilterSelection.
func FilterBySelection(events []domain.Event, sel domain.FilterSelection) []domain.Event {
	categories := make(map[domain.EventCategory]bool, len(sel.Categories))
	for _, c := range sel.Categories {
		categories[c] = true
	}
	sources := make(map[domain.EventSource]bool, len(sel.Sources))
	for _, src := range sel.Sources {
		sources[src] = true
	}
	return Filter(events, categories, sources)
}

func (s *Service) builtin(id string) (domain.Event, bool) {
	for _, e := range s.builtins {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Event{}, false
}
