package messaging

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

// Runnable represents a component that can be started and shutdown.
type Runnable interface {
	Start(ctx context.Context) error
	Shutdown() error
}

// topicNamer is implemented by consumers that report their topic.
type topicNamer interface {
	Topic() string
}

// ConsumerGroup runs several consumers over one subscriber and owns that
// subscriber's lifetime.
type ConsumerGroup struct {
	consumers  []Runnable
	subscriber message.Subscriber
	logger     *zap.Logger

	mu      sync.Mutex
	running bool
}

// NewConsumerGroup creates a new consumer group.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers a consumer to the group.
func (g *ConsumerGroup) Add(consumer Runnable) {
	g.consumers = append(g.consumers, consumer)
}

// Topics lists the topics of the registered consumers, in registration order.
func (g *ConsumerGroup) Topics() []string {
	topics := make([]string, 0, len(g.consumers))

	for i, c := range g.consumers {
		topics = append(topics, consumerName(i, c))
	}

	return topics
}

// Start starts every consumer. If one fails, those already started are
// stopped and the group can be started again.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return ErrAlreadyStarted
	}

	for i, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = g.consumers[j].Shutdown()
			}

			return fmt.Errorf("start consumer %s: %w", consumerName(i, consumer), err)
		}
	}

	g.running = true
	g.logger.Info("consumer group started", zap.Strings("topics", g.Topics()))

	return nil
}

// Shutdown stops all consumers and closes the subscriber, returning the first error.
func (g *ConsumerGroup) Shutdown() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.logger.Info("shutting down consumer group", zap.Strings("topics", g.Topics()))

	var firstErr error

	for i, consumer := range g.consumers {
		if err := consumer.Shutdown(); err != nil {
			g.logger.Warn("consumer shutdown failed",
				zap.String("topic", consumerName(i, consumer)),
				zap.Error(err),
			)

			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if err := g.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	g.running = false

	return firstErr
}

func consumerName(i int, c Runnable) string {
	if n, ok := c.(topicNamer); ok {
		return n.Topic()
	}

	return fmt.Sprintf("#%d", i)
}
