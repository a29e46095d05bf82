package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch republishes external filesystem changes to the store directory
// through the Notifier, so a second gyomucal process (or a hand-edited
// backup restore) is picked up without polling. It blocks until ctx is
// cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("store: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.basePath); err != nil {
		return fmt.Errorf("store: watch %s: %w", s.basePath, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Cannot classify the change; refresh everything.
			_ = err
			s.notifier.Publish(TopicUserEvents)
			s.notifier.Publish(TopicOverrides)
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if topic, ok := topicForFile(filepath.Base(evt.Name)); ok {
				s.notifier.Publish(topic)
			}
		}
	}
}

func topicForFile(name string) (Topic, bool) {
	switch name {
	case keyUserEvents:
		return TopicUserEvents, true
	case keyOverrides:
		return TopicOverrides, true
	case keyFilter:
		return TopicFilter, true
	case keySettings:
		return TopicSettings, true
	default:
		return "", false
	}
}
