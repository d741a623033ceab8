package messaging

import (
	"context"
	"log/slog"
	"sync"

	"jobescrow/internal/shared/events"
)

// AllTopics subscribes to every published topic.
const AllTopics = "*"

const subscriberBuffer = 128

type subscription struct {
	name string
	ch   chan events.Envelope
}

// Bus is the in-process event bus used when no broker is configured.
// Delivery is best effort: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	topics map[string][]*subscription
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		topics: make(map[string][]*subscription),
		logger: logger,
	}
}

func (b *Bus) Publish(ctx context.Context, topic string, event events.Envelope) error {
	b.mu.RLock()
	targets := make([]*subscription, 0, len(b.topics[topic])+len(b.topics[AllTopics]))
	targets = append(targets, b.topics[topic]...)
	targets = append(targets, b.topics[AllTopics]...)
	b.mu.RUnlock()

	for _, sub := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case sub.ch <- event:
		default:
			b.logger.Warn("subscriber buffer full; event dropped",
				"event", "bus_publish_drop",
				"module", "internal/platform/messaging",
				"layer", "platform",
				"topic", topic,
				"subscriber", sub.name,
				"event_id", event.EventID,
			)
		}
	}
	return nil
}

// Subscribe registers handler for topic (or AllTopics) until ctx is done.
func (b *Bus) Subscribe(ctx context.Context, name string, topic string, handler func(context.Context, events.Envelope) error) {
	sub := &subscription{name: name, ch: make(chan events.Envelope, subscriberBuffer)}

	b.mu.Lock()
	b.topics[topic] = append(b.topics[topic], sub)
	b.mu.Unlock()

	go func() {
		defer b.unsubscribe(topic, sub)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-sub.ch:
				if err := handler(ctx, event); err != nil {
					b.logger.Error("bus subscriber failed",
						"event", "bus_consume_failed",
						"module", "internal/platform/messaging",
						"layer", "platform",
						"subscriber", name,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
}

func (b *Bus) unsubscribe(topic string, target *subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	kept := b.topics[topic][:0:0]
	for _, sub := range b.topics[topic] {
		if sub != target {
			kept = append(kept, sub)
		}
	}
	b.topics[topic] = kept
}
