package container

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/samber/do"
	"github.com/serroba/shortlinks/internal/history"
	"github.com/serroba/shortlinks/internal/messaging"
	"github.com/serroba/shortlinks/internal/repair"
	"github.com/serroba/shortlinks/internal/shortener"
	"go.uber.org/zap"
)

// repairConsumerGroup is the Redis stream consumer group shared by repair consumers.
const repairConsumerGroup = "history-repair"

// MessagingPackage provides the repair publisher and the repair consumers.
// The memory backend uses an in-process channel; the others use Redis streams
// so a separate consumer process can apply repairs.
func MessagingPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*gochannel.GoChannel, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		return gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			messaging.NewZapLogger(logger),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.Store == BackendMemory {
			return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
		}

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: do.MustInvoke[*RedisConn](i).Client},
			messaging.NewZapLogger(logger),
		)
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (shortener.HistoryRepairer, error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return repair.NewPublisher(group.Publisher()), nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		var subscriber message.Subscriber

		if opts.Store == BackendMemory {
			subscriber = do.MustInvoke[*gochannel.GoChannel](i)
		} else {
			sub, err := redisstream.NewSubscriber(
				redisstream.SubscriberConfig{
					Client:        do.MustInvoke[*RedisConn](i).Client,
					ConsumerGroup: repairConsumerGroup,
				},
				messaging.NewZapLogger(logger),
			)
			if err != nil {
				return nil, err
			}

			subscriber = sub
		}

		return repair.NewConsumerGroup(
			subscriber,
			do.MustInvoke[*history.Log](i),
			do.MustInvoke[shortener.LinkStore](i),
			logger,
		), nil
	})
}
