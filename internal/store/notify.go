package store

import "sync"

// Topic identifies a logical resource whose stored state changed.
type Topic string

const (
	TopicUserEvents Topic = "user-events-changed"
	TopicOverrides  Topic = "overrides-changed"
	TopicFilter     Topic = "filter-changed"
	TopicSettings   Topic = "settings-changed"
)

// Notifier is an in-process publish/subscribe channel keyed by topic.
// Publishing never blocks: slow subscribers miss intermediate
// notifications and pick up the latest state on their next read.
type Notifier struct {
	mu   sync.Mutex
	subs map[Topic][]chan Topic
}

// NewNotifier creates an empty Notifier.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[Topic][]chan Topic)}
}

// Subscribe returns a buffered channel receiving change notifications
// for the given topics. The caller owns the channel until Unsubscribe.
func (n *Notifier) Subscribe(topics ...Topic) <-chan Topic {
	ch := make(chan Topic, 16)
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, t := range topics {
		n.subs[t] = append(n.subs[t], ch)
	}
	return ch
}

// Unsubscribe removes ch from every topic and closes it.
func (n *Notifier) Unsubscribe(ch <-chan Topic) {
	n.mu.Lock()
	defer n.mu.Unlock()
	var closed chan Topic
	for topic, chans := range n.subs {
		kept := chans[:0]
		for _, c := range chans {
			if c == ch {
				closed = c
				continue
			}
			kept = append(kept, c)
		}
		n.subs[topic] = kept
	}
	if closed != nil {
		close(closed)
	}
}

// Publish delivers topic to every subscriber without blocking. The
// sends happen under the same mutex Unsubscribe closes under, so a
// concurrent Unsubscribe can never close a channel mid-send.
func (n *Notifier) Publish(topic Topic) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs[topic] {
		select {
		case ch <- topic:
		default:
		}
	}
}
