// Package store persists gyomucal state as JSON documents in a diskv
// key-value store and broadcasts change notifications to interested
// components over topic-keyed channels.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"github.com/minjae-ko/gyomucal/internal/domain"
)

// Document keys. Each maps to one JSON file under the base path.
const (
	keyUserEvents = "user-events"
	keyOverrides  = "overrides"
	keyFilter     = "filter"
	keySettings   = "settings"
)

// Settings holds AI provider preferences and credentials.
type Settings struct {
	Provider      string `json:"provider"` // "auto", "gemini", "openrouter"
	GeminiKey     string `json:"geminiKey"`
	OpenRouterKey string `json:"openRouterKey"`
	Model         string `json:"model"` // optional explicit OpenRouter model
}

// Store is a diskv-backed document store. Reads of missing documents
// return zero values, never errors; writes report errors so callers can
// decide whether to surface or swallow them.
type Store struct {
	mu       sync.Mutex
	d        *diskv.Diskv
	basePath string
	notifier *Notifier
}

// Open creates a Store rooted at basePath.
func Open(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath: basePath,
		notifier: NewNotifier(),
	}, nil
}

// Notifier exposes the store's change broadcast channel.
func (s *Store) Notifier() *Notifier { return s.notifier }

// BasePath returns the directory backing the store.
func (s *Store) BasePath() string { return s.basePath }

func (s *Store) readJSON(key string, target any) error {
	data, err := s.d.Read(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}

func (s *Store) writeJSON(key string, value any, topic Topic) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", key, err)
	}
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	s.notifier.Publish(topic)
	return nil
}

// UserEvents loads the persisted user event list. Missing or corrupt
// data yields an empty list.
func (s *Store) UserEvents() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var events []domain.Event
	if err := s.readJSON(keyUserEvents, &events); err != nil {
		return nil
	}
	return events
}

// SaveUserEvents replaces the persisted user event list and notifies
// TopicUserEvents subscribers.
func (s *Store) SaveUserEvents(events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if events == nil {
		events = []domain.Event{}
	}
	return s.writeJSON(keyUserEvents, events, TopicUserEvents)
}

// Overrides loads the builtin override map. Missing or corrupt data
// yields an empty map.
func (s *Store) Overrides() map[string]domain.BuiltinOverride {
	s.mu.Lock()
	defer s.mu.Unlock()
	overrides := map[string]domain.BuiltinOverride{}
	if err := s.readJSON(keyOverrides, &overrides); err != nil {
		return map[string]domain.BuiltinOverride{}
	}
	return overrides
}

// SaveOverrides replaces the builtin override map, pruning empty patches
// before writing, and notifies TopicOverrides subscribers.
func (s *Store) SaveOverrides(overrides map[string]domain.BuiltinOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := make(map[string]domain.BuiltinOverride, len(overrides))
	for id, o := range overrides {
		if !o.Empty() {
			pruned[id] = o
		}
	}
	return s.writeJSON(keyOverrides, pruned, TopicOverrides)
}

// Filter loads the persisted filter selection, defaulting to everything
// selected.
func (s *Store) Filter() domain.FilterSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sel domain.FilterSelection
	if err := s.readJSON(keyFilter, &sel); err != nil {
		return domain.DefaultFilterSelection()
	}
	return sel
}

// SaveFilter persists the filter selection and notifies TopicFilter
// subscribers.
func (s *Store) SaveFilter(sel domain.FilterSelection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(keyFilter, sel, TopicFilter)
}

// Settings loads provider preferences. Missing data yields defaults.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings := Settings{Provider: "auto"}
	if err := s.readJSON(keySettings, &settings); err != nil {
		return Settings{Provider: "auto"}
	}
	if settings.Provider == "" {
		settings.Provider = "auto"
	}
	return settings
}

// SaveSettings persists provider preferences and notifies TopicSettings
// subscribers.
func (s *Store) SaveSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(keySettings, settings, TopicSettings)
}
